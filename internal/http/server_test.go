package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/dispatcher"
	"github.com/bgbarbearia/barbershop-admin/internal/http/middleware"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
	"github.com/bgbarbearia/barbershop-admin/internal/service/auth"
	"github.com/bgbarbearia/barbershop-admin/internal/service/customers"
	"github.com/bgbarbearia/barbershop-admin/internal/service/templates"
	"github.com/bgbarbearia/barbershop-admin/internal/session"
	"github.com/bgbarbearia/barbershop-admin/internal/settings"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

// memCustomers is an in-memory CustomersRepository.
type memCustomers struct {
	mu   sync.Mutex
	rows []model.Customer
}

func (m *memCustomers) List(context.Context) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Customer(nil), m.rows...), nil
}

func (m *memCustomers) Create(_ context.Context, nc model.NewCustomer) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	c := model.Customer{ID: util.NewID(), Name: nc.Name, Phone: nc.Phone, Email: nc.Email,
		BirthDate: nc.BirthDate, Unit: nc.Unit, Notes: nc.Notes, CreatedAt: now, UpdatedAt: now}
	m.rows = append([]model.Customer{c}, m.rows...)
	return c, nil
}

func (m *memCustomers) Update(_ context.Context, id string, p model.CustomerPatch) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			if p.Name != nil {
				m.rows[i].Name = *p.Name
			}
			if p.Unit != nil {
				m.rows[i].Unit = *p.Unit
			}
			if p.Email != nil {
				m.rows[i].Email = nil
				if *p.Email != "" {
					m.rows[i].Email = p.Email
				}
			}
			if p.Notes != nil {
				m.rows[i].Notes = nil
				if *p.Notes != "" {
					m.rows[i].Notes = p.Notes
				}
			}
			if p.BirthDate != nil {
				m.rows[i].BirthDate = nil
				if !p.BirthDate.IsZero() {
					m.rows[i].BirthDate = p.BirthDate
				}
			}
			return m.rows[i], nil
		}
	}
	return model.Customer{}, apperr.NotFound("customer", id)
}

func (m *memCustomers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("customer", id)
}

type memTemplates struct {
	mu   sync.Mutex
	rows []model.MessageTemplate
}

func (m *memTemplates) List(context.Context) ([]model.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MessageTemplate{}, m.rows...), nil
}

func (m *memTemplates) GetByID(_ context.Context, id string) (*model.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTemplates) Create(_ context.Context, nt model.NewTemplate) (model.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := model.MessageTemplate{ID: util.NewID(), Name: nt.Name, Description: nt.Description, Content: nt.Content, CreatedAt: time.Now()}
	m.rows = append([]model.MessageTemplate{t}, m.rows...)
	return t, nil
}

type serverTestSuite struct {
	suite.Suite
	srv      http.Handler
	hook     *httptest.Server
	hookHits int
	hookMu   sync.Mutex
	token    string
}

func (s *serverTestSuite) SetupTest() {
	s.hookHits = 0
	s.hook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hookMu.Lock()
		s.hookHits++
		s.hookMu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	s.T().Cleanup(s.hook.Close)

	mr := miniredis.RunT(s.T())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.T().Cleanup(func() { _ = rdb.Close() })

	cfg, err := config.Load("")
	s.Require().NoError(err)
	cfg.HTTP.PublicURL = "https://barber.example.com/"

	custSvc := customers.New(&memCustomers{}, notifier.Nop{})
	tplSvc := templates.New(&memTemplates{})
	engine := dispatcher.NewEngine(webhook.NewClient(time.Second), s.hook.URL, cfg.Dispatch.Source)

	s.srv = NewServer(cfg, Services{
		Customers: custSvc,
		Templates: tplSvc,
		Dispatch:  dispatcher.NewService(engine, custSvc, tplSvc),
		Auth:      auth.New(cfg.Auth.Password, session.NewStore(rdb, time.Hour)),
		Settings:  settings.NewStore(rdb, ""),
	}, rdb).Handler()

	rec := s.do(http.MethodPost, "/v1/auth/login", `{"password":"100001"}`, false)
	s.Require().Equal(http.StatusOK, rec.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.token, _ = body["token"].(string)
	s.Require().NotEmpty(s.token)
}

func (s *serverTestSuite) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(middleware.SessionHeader, s.token)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s *serverTestSuite) register(name, unit string) model.Customer {
	rec := s.do(http.MethodPost, "/v1/register",
		`{"name":"`+name+`","ddd":"85","number":"99999-0000","unit":"`+unit+`"}`, false)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var c model.Customer
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func (s *serverTestSuite) TestLogin() {
	rec := s.do(http.MethodPost, "/v1/auth/login", `{"password":"123456"}`, false)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/login", `{"password":"1000"}`, false)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/v1/auth/session", "", true)
	s.JSONEq(`{"authenticated":true}`, rec.Body.String())

	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/v1/auth/logout", "", true).Code)

	rec = s.do(http.MethodGet, "/v1/auth/session", "", true)
	s.JSONEq(`{"authenticated":false}`, rec.Body.String())
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/v1/admin/customers", "", true).Code)
}

func (s *serverTestSuite) TestAdminRequiresSession() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/v1/admin/dashboard", "", false).Code)
}

func (s *serverTestSuite) TestRegisterComposesPhone() {
	c := s.register("Ana", "forte")
	s.Equal("+5585999990000", c.Phone)
	s.Equal(model.UnitForte, c.Unit)

	rec := s.do(http.MethodPost, "/v1/register", `{"name":"Ana","unit":"forte"}`, false)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/register", `{"phone":"+5585999990000","unit":"forte"}`, false)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "name")
}

func (s *serverTestSuite) TestCustomersCRUD() {
	ana := s.register("Ana", "forte")
	s.register("Bruno", "guadalajara")

	rec := s.do(http.MethodGet, "/v1/admin/customers?unit=guadalajara", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"count":1`)

	rec = s.do(http.MethodPatch, "/v1/admin/customers/"+ana.ID, `{"name":"Ana Paula"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Ana Paula")

	rec = s.do(http.MethodPatch, "/v1/admin/customers/ghost", `{"name":"x"}`, true)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, "/v1/admin/customers/"+ana.ID, `{"email":"nope"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/v1/admin/customers/"+ana.ID, "", true).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/v1/admin/customers/"+ana.ID, "", true).Code)

	rec = s.do(http.MethodGet, "/v1/admin/customers?q=ana", "", true)
	s.Contains(rec.Body.String(), `"count":0`)
}

func (s *serverTestSuite) TestPatchNullClearsOptionalFields() {
	rec := s.do(http.MethodPost, "/v1/register",
		`{"name":"Ana","phone":"+5585999990000","unit":"forte","email":"ana@mail.com","notes":"vip","birth_date":"1990-05-10"}`, false)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var ana model.Customer
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &ana))
	s.Require().NotNil(ana.Email)

	// absent keys are left alone
	rec = s.do(http.MethodPatch, "/v1/admin/customers/"+ana.ID, `{"name":"Ana Paula"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	var got model.Customer
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().NotNil(got.Email)
	s.Equal("ana@mail.com", *got.Email)
	s.Require().NotNil(got.Notes)
	s.Require().NotNil(got.BirthDate)

	rec = s.do(http.MethodPatch, "/v1/admin/customers/"+ana.ID, `{"email":null,"notes":null,"birth_date":null}`, true)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.JSONEq(`null`, fieldJSON(s, rec.Body.Bytes(), "email"))
	s.JSONEq(`null`, fieldJSON(s, rec.Body.Bytes(), "notes"))
	s.JSONEq(`null`, fieldJSON(s, rec.Body.Bytes(), "birth_date"))
}

func fieldJSON(s *serverTestSuite, body []byte, key string) string {
	var m map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(body, &m))
	raw, ok := m[key]
	s.Require().True(ok, "missing key %q", key)
	return string(raw)
}

func (s *serverTestSuite) TestDashboardAndExport() {
	s.register("Ana", "forte")

	rec := s.do(http.MethodGet, "/v1/admin/dashboard", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	var st model.DashboardStats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &st))
	s.Equal(1, st.TotalCustomers)
	s.Equal(1, st.NewCustomersThisMonth)
	s.Equal(100, st.GrowthRate)
	s.Len(st.LastRegistrations, 1)

	rec = s.do(http.MethodGet, "/v1/admin/customers/export", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "clientes-")
	s.True(strings.HasPrefix(rec.Body.String(), "[\n  {"))
}

func (s *serverTestSuite) TestTemplatesAndDispatch() {
	s.register("Ana", "forte")
	s.register("Bruno", "guadalajara")
	s.register("Caio", "forte")

	rec := s.do(http.MethodPost, "/v1/admin/templates", `{"name":"  "}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/admin/templates", `{"name":"Promo","content":"20% off"}`, true)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var tpl model.MessageTemplate
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &tpl))

	rec = s.do(http.MethodPost, "/v1/admin/dispatch", `{"template_id":"`+tpl.ID+`","unit":"forte"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success":2,"total":2}`, rec.Body.String())
	s.Equal(2, s.hookHits)

	rec = s.do(http.MethodPost, "/v1/admin/dispatch", `{"template_id":"nope","unit":"forte"}`, true)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/v1/admin/dispatch", `{"template_id":"","unit":"forte"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(2, s.hookHits)

	rec = s.do(http.MethodGet, "/v1/admin/dispatch/units", "", true)
	s.JSONEq(`[{"value":"forte","label":"Av. do Forte n° 1825"},{"value":"guadalajara","label":"Rua Guadalajara n° 350"}]`, rec.Body.String())
}

func (s *serverTestSuite) TestSettings() {
	rec := s.do(http.MethodPut, "/v1/admin/settings", `{"notify_webhook_url":"https://hooks.local/new"}`, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/v1/admin/settings", "", true)
	s.JSONEq(`{"notify_webhook_url":"https://hooks.local/new"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/v1/admin/settings", `{"notify_webhook_url":"hooks"}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *serverTestSuite) TestRegistrationSurface() {
	rec := s.do(http.MethodGet, "/v1/registration/link", "", false)
	s.JSONEq(`{"link":"https://barber.example.com/?mobile=true"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/v1/registration/qr.png", "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("image/png", rec.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = s.do(http.MethodGet, "/v1/registration/mode?mobile=true", "", false)
	s.JSONEq(`{"mode":"mobile"}`, rec.Body.String())
	rec = s.do(http.MethodGet, "/v1/registration/mode?mobile=1", "", false)
	s.JSONEq(`{"mode":"tablet"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/v1/units", "", false)
	s.Contains(rec.Body.String(), "guadalajara")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(serverTestSuite))
}

func TestIPExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/register", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	req.Header.Set(echo.HeaderXForwardedFor, "198.51.100.1")
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.1")
	assert.Equal(t, "203.0.113.7", ipExtractor(nil)(req))

	req.RemoteAddr = "10.1.2.3:40000"
	assert.Equal(t, "198.51.100.1", ipExtractor([]string{"10.0.0.0/8"})(req))

	req.RemoteAddr = "192.168.1.9:40000"
	assert.Equal(t, "192.168.1.9", ipExtractor([]string{"10.0.0.0/8", "bogus"})(req))
}

func TestRegisterRateLimitKeysOnPeerAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.RateLimit.RPS = 2

	srv := NewServer(cfg, Services{
		Customers: customers.New(&memCustomers{}, notifier.Nop{}),
		Auth:      auth.New(cfg.Auth.Password, session.NewStore(rdb, time.Hour)),
	}, rdb).Handler()

	// the window is one second, so a fast loop spans at most two windows
	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/register",
			strings.NewReader(`{"name":"Ana","phone":"+5585999990000","unit":"forte"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set(echo.HeaderXForwardedFor, "198.51.100."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.GreaterOrEqual(t, limited, 16)
}
