package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/util"
)

// TemplatesRepository persists message templates. Templates are never updated or deleted.
type TemplatesRepository interface {
	List(ctx context.Context) ([]model.MessageTemplate, error)
	GetByID(ctx context.Context, id string) (*model.MessageTemplate, error)
	Create(ctx context.Context, nt model.NewTemplate) (model.MessageTemplate, error)
}

type TemplatesRepositoryImpl struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTemplatesRepository(db *sqlx.DB) *TemplatesRepositoryImpl {
	return &TemplatesRepositoryImpl{db: db, now: utcNow}
}

var _ TemplatesRepository = (*TemplatesRepositoryImpl)(nil)

func (r *TemplatesRepositoryImpl) List(ctx context.Context) ([]model.MessageTemplate, error) {
	rows := make([]model.MessageTemplate, 0)
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, content, created_at
		  FROM templates
		 ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, apperr.Transport("list templates", err)
	}
	return rows, nil
}

// GetByID returns nil, nil when the id does not exist.
func (r *TemplatesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.MessageTemplate, error) {
	var t model.MessageTemplate
	err := r.db.GetContext(ctx, &t, `
		SELECT id, name, description, content, created_at
		  FROM templates
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Transport("get template", err)
	}
	return &t, nil
}

func (r *TemplatesRepositoryImpl) Create(ctx context.Context, nt model.NewTemplate) (model.MessageTemplate, error) {
	t := model.MessageTemplate{
		ID:          util.NewID(),
		Name:        nt.Name,
		Description: nt.Description,
		Content:     nt.Content,
		CreatedAt:   r.now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, t.Content, t.CreatedAt)
	if err != nil {
		return model.MessageTemplate{}, apperr.Transport("insert template", err)
	}
	return t, nil
}
