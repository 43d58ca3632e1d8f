package service

import (
	"context"
	"fmt"

	"github.com/martijn/clientreg/internal/core/domain"
	"github.com/martijn/clientreg/internal/core/query"
	"github.com/martijn/clientreg/internal/core/repository"
	"github.com/martijn/clientreg/internal/core/validation"
)

// ClientService is the only path from callers to client storage: every write
// goes through the validator first.
type ClientService struct {
	clientRepo repository.ClientRepository
	validator  *validation.Validator
}

func NewClientService(clientRepo repository.ClientRepository, validator *validation.Validator) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		validator:  validator,
	}
}

// ListClients returns every client matching q; the slice is never nil.
func (s *ClientService) ListClients(ctx context.Context, q query.List) ([]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []*domain.Client{}
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// CreateClient validates raw and inserts it. A *validation.Rejection is
// returned as the error when raw is invalid.
func (s *ClientService) CreateClient(ctx context.Context, raw map[string]any) (*domain.Client, error) {
	fields, rej := s.validator.Normalize(raw)
	if rej != nil {
		return nil, rej
	}

	client := domain.NewClient(fields)
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClient replaces all fields of client id with the validated raw
// payload.
func (s *ClientService) UpdateClient(ctx context.Context, id int64, raw map[string]any) (*domain.Client, error) {
	fields, rej := s.validator.Normalize(raw)
	if rej != nil {
		return nil, rej
	}

	client := domain.NewClient(fields)
	client.ID = id
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	return s.clientRepo.Delete(ctx, id)
}

// CheckHealth verifies the storage collaborator is reachable.
func (s *ClientService) CheckHealth(ctx context.Context) error {
	if err := s.clientRepo.Ping(ctx); err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	return nil
}
