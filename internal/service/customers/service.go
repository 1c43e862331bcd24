package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
	"github.com/bgbarbearia/barbershop-admin/internal/repository"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
)

// Service owns the in-memory customer list shared by the admin pages, dispatch and the dashboard.
// The store stays authoritative: the list is loaded with Load, reloaded with Refresh and patched
// only after a store mutation succeeds.
type Service struct {
	repo     repository.CustomersRepository
	notifier notifier.Notifier

	// writeMu is held across a store call and the cache update that follows it, so a
	// Refresh can never install a list read before a mutation that already hit the cache.
	writeMu sync.Mutex

	mu     sync.RWMutex
	cache  []model.Customer
	loaded bool
}

func New(repo repository.CustomersRepository, n notifier.Notifier) *Service {
	if n == nil {
		n = notifier.Nop{}
	}
	return &Service{repo: repo, notifier: n}
}

// Load fills the list from the store. Same as Refresh; kept separate for startup call sites.
func (s *Service) Load(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Refresh replaces the list with the store's current content. On error the old list is kept.
func (s *Service) Refresh(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh customers: %w", err)
	}

	s.mu.Lock()
	s.cache = list
	s.loaded = true
	s.mu.Unlock()

	metrics.CustomersCached.Set(float64(len(list)))
	return nil
}

// Snapshot returns a copy of the list, newest first.
func (s *Service) Snapshot() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, len(s.cache))
	copy(out, s.cache)
	return out
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Load(ctx)
}

// List returns the cached customers matching q and unit.
func (s *Service) List(ctx context.Context, q, unit string) ([]model.Customer, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return Filter(s.Snapshot(), q, unit), nil
}

func (s *Service) Create(ctx context.Context, nc model.NewCustomer) (model.Customer, error) {
	nc, err := normalizeNew(nc)
	if err != nil {
		return model.Customer{}, err
	}

	s.writeMu.Lock()
	c, err := s.repo.Create(ctx, nc)
	if err != nil {
		s.writeMu.Unlock()
		return model.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.mu.Lock()
	s.cache = append([]model.Customer{c}, s.cache...)
	n := len(s.cache)
	s.mu.Unlock()
	s.writeMu.Unlock()
	metrics.CustomersCached.Set(float64(n))

	logger.Log.Info("customer registered", zap.String("id", c.ID), zap.String("unit", c.Unit.String()))

	s.notifier.Notify(ctx, c)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, p model.CustomerPatch) (model.Customer, error) {
	p, err := normalizePatch(p)
	if err != nil {
		return model.Customer{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	c, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return model.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	s.mu.Lock()
	for i := range s.cache {
		if s.cache[i].ID == id {
			s.cache[i] = c
			break
		}
	}
	s.mu.Unlock()

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.mu.Lock()
	for i := range s.cache {
		if s.cache[i].ID == id {
			s.cache = append(s.cache[:i:i], s.cache[i+1:]...)
			break
		}
	}
	n := len(s.cache)
	s.mu.Unlock()
	metrics.CustomersCached.Set(float64(n))

	return nil
}

// Export renders the full list as indented JSON.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return json.MarshalIndent(s.Snapshot(), "", "  ")
}

// UnitsPresent lists the units that have at least one customer, in catalogue order.
func (s *Service) UnitsPresent(ctx context.Context) ([]model.Unit, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	seen := make(map[model.Unit]bool)
	for _, c := range s.Snapshot() {
		seen[c.Unit] = true
	}

	out := make([]model.Unit, 0, len(seen))
	for _, u := range model.Units {
		if seen[u] {
			out = append(out, u)
		}
	}
	return out, nil
}

// Filter keeps customers whose name or email contains q (case-insensitive) or whose phone
// contains q, restricted to unit unless unit is empty or "all".
func Filter(list []model.Customer, q, unit string) []model.Customer {
	q = strings.TrimSpace(q)
	lq := strings.ToLower(q)
	allUnits := model.IsAllUnits(unit)
	unit = strings.TrimSpace(unit)

	out := make([]model.Customer, 0, len(list))
	for _, c := range list {
		if !allUnits && string(c.Unit) != unit {
			continue
		}
		if q != "" && !matches(c, q, lq) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matches(c model.Customer, q, lq string) bool {
	if strings.Contains(strings.ToLower(c.Name), lq) {
		return true
	}
	if strings.Contains(c.Phone, q) {
		return true
	}
	return c.Email != nil && strings.Contains(strings.ToLower(*c.Email), lq)
}

func normalizeNew(nc model.NewCustomer) (model.NewCustomer, error) {
	nc.Name = strings.TrimSpace(nc.Name)
	if nc.Name == "" {
		return nc, apperr.Validation("name", "is required")
	}

	nc.Phone = util.NormalizePhone(nc.Phone)
	if nc.Phone == "" {
		return nc, apperr.Validation("phone", "is required")
	}

	u, ok := model.ParseUnit(nc.Unit.String())
	if nc.Unit == "" {
		return nc, apperr.Validation("unit", "is required")
	}
	if !ok {
		return nc, apperr.Validation("unit", "unknown unit")
	}
	nc.Unit = u

	nc.Email = optional(nc.Email)
	nc.Notes = optional(nc.Notes)
	if nc.BirthDate != nil && nc.BirthDate.IsZero() {
		nc.BirthDate = nil
	}
	return nc, nil
}

func normalizePatch(p model.CustomerPatch) (model.CustomerPatch, error) {
	if p.Empty() {
		return p, apperr.Validation("", "nothing to update")
	}

	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		if v == "" {
			return p, apperr.Validation("name", "cannot be blank")
		}
		p.Name = &v
	}
	if p.Phone != nil {
		v := util.NormalizePhone(*p.Phone)
		if v == "" {
			return p, apperr.Validation("phone", "cannot be blank")
		}
		p.Phone = &v
	}
	if p.Unit != nil {
		u, ok := model.ParseUnit(p.Unit.String())
		if !ok {
			return p, apperr.Validation("unit", "unknown unit")
		}
		p.Unit = &u
	}
	// Email and Notes are trimmed but an empty value is kept so the field can be cleared.
	if p.Email != nil {
		v := strings.TrimSpace(*p.Email)
		p.Email = &v
	}
	if p.Notes != nil {
		v := strings.TrimSpace(*p.Notes)
		p.Notes = &v
	}
	return p, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
