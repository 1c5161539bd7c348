package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
	"github.com/kaustubhshukla9586/FinBuddy/internal/sync"
)

// PersonService manages the participant directory.
type PersonService struct {
	store storage.Store
	prop  *sync.Propagator
}

// NewPersonService creates a PersonService backed by the given store and
// propagator.
func NewPersonService(store storage.Store, prop *sync.Propagator) *PersonService {
	return &PersonService{store: store, prop: prop}
}

// PersonInput carries the fields of a participant.
type PersonInput struct {
	Name        string
	UPIID       string
	Phone       string
	Email       string
}

func (in *PersonInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(in.UPIID) == "" {
		return fmt.Errorf("upi id is required")
	}
	return nil
}

// Create registers a new participant and mirrors it.
func (s *PersonService) Create(ctx context.Context, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Person{
		Name:        strings.TrimSpace(in.Name),
		UPIID:       strings.TrimSpace(in.UPIID),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
	}
	if err := s.store.CreatePerson(ctx, p); err != nil {
		return nil, err
	}

	s.prop.PersonSaved(ctx, p)
	return p, nil
}

// Update edits a participant and mirrors the new state.
func (s *PersonService) Update(ctx context.Context, id int64, in PersonInput) (*models.Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.UPIID = strings.TrimSpace(in.UPIID)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.TrimSpace(in.Email)

	if err := s.store.UpdatePerson(ctx, p); err != nil {
		return nil, err
	}

	s.prop.PersonSaved(ctx, p)
	return p, nil
}

// Get retrieves a participant.
func (s *PersonService) Get(ctx context.Context, id int64) (*models.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// List returns all participants ordered by name.
func (s *PersonService) List(ctx context.Context) ([]*models.Person, error) {
	return s.store.ListPeople(ctx)
}
