package repository

import (
	"context"

	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/query"
)

// ClientFields lists the columns list queries may filter and order on.
var ClientFields = []string{"id", "name", "age", "state_code"}

// ClientRepository is the storage collaborator of the client resource.
// FindByID, Update and Delete return an error wrapping
// domain.ErrClientNotFound when the id does not exist.
type ClientRepository interface {
	List(ctx context.Context, q query.List) ([]*domain.Client, error)
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	// Create inserts the client and sets its storage-assigned ID.
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
