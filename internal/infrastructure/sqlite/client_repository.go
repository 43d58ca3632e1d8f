package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/query"
	"github.com/martijn/clientreg/internal/core/repository"
)

var clientColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"age":        "age",
	"state_code": "state_code",
}

type clientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) List(ctx context.Context, q query.List) ([]*domain.Client, error) {
	where, args, err := buildWhere(q.Filters, clientColumns)
	if err != nil {
		return nil, err
	}
	order, err := buildOrder(q.Order, clientColumns, "id ASC")
	if err != nil {
		return nil, err
	}

	stmt := `SELECT id, name, age, state_code FROM client` + where + order

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, `SELECT id, name, age, state_code FROM client WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrClientNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO client (name, age, state_code)
		VALUES (:name, :age, :state_code)
	`, client)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	client.ID = id
	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE client
		SET name = :name, age = :age, state_code = :state_code
		WHERE id = :id
	`, client)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return expectOneRow(result, client.ID)
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM client WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *clientRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", domain.ErrClientNotFound, id)
	}
	return nil
}
