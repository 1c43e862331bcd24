package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var c struct {
		BirthDate *Date `json:"birth_date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"birth_date":"1990-03-05"}`), &c))
	require.NotNil(t, c.BirthDate)
	assert.Equal(t, time.March, c.BirthDate.Month())

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"birth_date":"1990-03-05"}`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`{"birth_date":"1990-03-05T10:00:00-03:00"}`), &c))
	assert.Equal(t, "1990-03-05", c.BirthDate.String())

	assert.Error(t, json.Unmarshal([]byte(`{"birth_date":"05/03/1990"}`), &c))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, 7, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2001-07-09", d.String())

	require.NoError(t, d.Scan([]byte("1999-12-31")))
	assert.Equal(t, "1999-12-31", d.String())

	assert.Error(t, d.Scan(42))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "1999-12-31", v)
}

func TestUnits(t *testing.T) {
	u, ok := ParseUnit(" Forte ")
	assert.True(t, ok)
	assert.Equal(t, UnitForte, u)

	_, ok = ParseUnit("centro")
	assert.False(t, ok)

	assert.True(t, IsAllUnits(""))
	assert.True(t, IsAllUnits("All"))
	assert.False(t, IsAllUnits("forte"))

	assert.Equal(t, "Rua Guadalajara n° 350", UnitGuadalajara.Label())
	assert.Len(t, UnitCatalog(), 2)
}

func TestDispatchPayloadCarriesCustomerSubset(t *testing.T) {
	email := "ana@x.com"
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := Customer{ID: "01", Name: "Ana", Phone: "+5585", Email: &email, Unit: UnitForte, Notes: &email}

	b, err := json.Marshal(NewDispatchPayload("tpl", c, now, "barbershop-admin"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"template":"tpl",
		"customer":{"id":"01","name":"Ana","phone":"+5585","email":"ana@x.com","birth_date":null,"unit":"forte"},
		"timestamp":"2025-03-01T09:00:00Z",
		"source":"barbershop-admin"
	}`, string(b))
}

func TestCustomerJSONWritesNullOptionals(t *testing.T) {
	c := Customer{ID: "01", Name: "Ana", Phone: "+5585999990000", Unit: UnitForte,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"email", "birth_date", "notes"} {
		raw, ok := m[key]
		require.True(t, ok, key)
		assert.Equal(t, "null", string(raw), key)
	}
}

func TestNullableTellsAbsentFromNull(t *testing.T) {
	var req struct {
		Email     Nullable[string] `json:"email"`
		Notes     Nullable[string] `json:"notes"`
		BirthDate Nullable[Date]   `json:"birth_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"email":null,"birth_date":"1990-05-10"}`), &req))

	assert.True(t, req.Email.Set)
	assert.Nil(t, req.Email.Value)

	assert.False(t, req.Notes.Set)

	require.True(t, req.BirthDate.Set)
	require.NotNil(t, req.BirthDate.Value)
	assert.Equal(t, "1990-05-10", req.BirthDate.Value.String())

	assert.Error(t, json.Unmarshal([]byte(`{"birth_date":"10/05/1990"}`), &req))
}
