package model

import "time"

// Customer is the DB entity persisted in the customers table.
type Customer struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Phone     string    `db:"phone"      json:"phone"` // ddi+ddd+number, e.g. +5585999990000
	Email     *string   `db:"email"      json:"email"`
	BirthDate *Date     `db:"birth_date" json:"birth_date"`
	Unit      Unit      `db:"unit"       json:"unit"`
	Notes     *string   `db:"notes"      json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewCustomer holds the caller-supplied fields of a registration.
type NewCustomer struct {
	Name      string
	Phone     string
	Email     *string
	BirthDate *Date
	Unit      Unit
	Notes     *string
}

// CustomerPatch is a partial update; nil fields are left untouched.
type CustomerPatch struct {
	Name      *string
	Phone     *string
	Email     *string
	BirthDate *Date
	Unit      *Unit
	Notes     *string
}

// Empty reports whether the patch changes nothing.
func (p CustomerPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil &&
		p.BirthDate == nil && p.Unit == nil && p.Notes == nil
}
