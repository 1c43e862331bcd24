package dispatcher

import (
	"context"
	"strings"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
)

// CustomerSource yields the customer list a dispatch runs over.
type CustomerSource interface {
	Snapshot() []model.Customer
}

// TemplateLookup returns nil, nil for an unknown id.
type TemplateLookup interface {
	GetByID(ctx context.Context, id string) (*model.MessageTemplate, error)
}

// Service resolves the template and customer list before handing them to the Engine.
type Service struct {
	engine    *Engine
	customers CustomerSource
	templates TemplateLookup
}

func NewService(engine *Engine, customers CustomerSource, templates TemplateLookup) *Service {
	return &Service{engine: engine, customers: customers, templates: templates}
}

func (s *Service) Dispatch(ctx context.Context, templateID, unit string) (model.DispatchResult, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return model.DispatchResult{}, apperr.Validation("template_id", "select a template")
	}

	t, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return model.DispatchResult{}, err
	}
	if t == nil {
		return model.DispatchResult{}, apperr.NotFound("template", templateID)
	}

	return s.engine.Dispatch(ctx, t.ID, unit, s.customers.Snapshot())
}
