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

// CustomersRepository defines persistence for the customers table.
type CustomersRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	Create(ctx context.Context, nc model.NewCustomer) (model.Customer, error)
	Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, error)
	Delete(ctx context.Context, id string) error
}

type CustomersRepositoryImpl struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db, now: utcNow}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

const customerColumns = `id, name, phone, email, birth_date, unit, notes, created_at, updated_at`

// List returns every customer, newest first.
func (r *CustomersRepositoryImpl) List(ctx context.Context) ([]model.Customer, error) {
	rows := make([]model.Customer, 0)
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+customerColumns+`
		  FROM customers
		 ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, apperr.Transport("list customers", err)
	}
	return rows, nil
}

// Create assigns id and timestamps and inserts the row.
func (r *CustomersRepositoryImpl) Create(ctx context.Context, nc model.NewCustomer) (model.Customer, error) {
	now := r.now()
	c := model.Customer{
		ID:        util.NewID(),
		Name:      nc.Name,
		Phone:     nc.Phone,
		Email:     nc.Email,
		BirthDate: nc.BirthDate,
		Unit:      nc.Unit,
		Notes:     nc.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers
		    (id, name, phone, email, birth_date, unit, notes, created_at, updated_at)
		VALUES
		    (:id, :name, :phone, :email, :birth_date, :unit, :notes, :created_at, :updated_at)
	`, c)
	if err != nil {
		return model.Customer{}, apperr.Transport("insert customer", err)
	}
	return c, nil
}

// Update applies patch to an existing row inside a transaction and returns the stored result.
func (r *CustomersRepositoryImpl) Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, error) {
	var out model.Customer
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var c model.Customer
		err := tx.GetContext(ctx, &c, `
			SELECT `+customerColumns+`
			  FROM customers
			 WHERE id = ?
			 FOR UPDATE
		`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("customer", id)
		}
		if err != nil {
			return apperr.Transport("load customer for update", err)
		}

		applyPatch(&c, patch)
		c.UpdatedAt = r.now()

		if _, err := tx.NamedExecContext(ctx, `
			UPDATE customers
			   SET name = :name, phone = :phone, email = :email, birth_date = :birth_date,
			       unit = :unit, notes = :notes, updated_at = :updated_at
			 WHERE id = :id
		`, c); err != nil {
			return apperr.Transport("update customer", err)
		}

		out = c
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return out, nil
}

// Delete removes the row; a missing id is reported as NotFoundError.
func (r *CustomersRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return apperr.Transport("delete customer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Transport("delete customer", err)
	}
	if n == 0 {
		return apperr.NotFound("customer", id)
	}
	return nil
}

func applyPatch(c *model.Customer, p model.CustomerPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = nilIfEmpty(p.Email)
	}
	if p.BirthDate != nil {
		c.BirthDate = p.BirthDate
		if p.BirthDate.IsZero() {
			c.BirthDate = nil
		}
	}
	if p.Unit != nil {
		c.Unit = *p.Unit
	}
	if p.Notes != nil {
		c.Notes = nilIfEmpty(p.Notes)
	}
}

// an empty value in a patch clears a nullable column
func nilIfEmpty(s *string) *string {
	if *s == "" {
		return nil
	}
	return s
}
