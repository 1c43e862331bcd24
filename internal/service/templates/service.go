package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/repository"
)

type Service struct {
	repo repository.TemplatesRepository
}

func New(repo repository.TemplatesRepository) *Service {
	return &Service{repo: repo}
}

// List returns all templates, newest first.
func (s *Service) List(ctx context.Context) ([]model.MessageTemplate, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*model.MessageTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a template. Only the name is required; names need not be unique.
func (s *Service) Create(ctx context.Context, nt model.NewTemplate) (model.MessageTemplate, error) {
	nt.Name = strings.TrimSpace(nt.Name)
	if nt.Name == "" {
		return model.MessageTemplate{}, apperr.Validation("name", "is required")
	}
	nt.Description = strings.TrimSpace(nt.Description)

	t, err := s.repo.Create(ctx, nt)
	if err != nil {
		return model.MessageTemplate{}, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}
