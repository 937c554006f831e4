package commission

import (
	"context"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// CreateCommissionInput is the admin add-commission form.
type CreateCommissionInput struct {
	OwnerID     string
	Description string
	Status      string
}

// CreateCommission validates and persists a new commission.
type CreateCommission struct {
	repo  ports.CommissionRepository
	clock Clock
	ids   IDGenerator
}

// NewCreateCommission builds the use case.
func NewCreateCommission(repo ports.CommissionRepository, clock Clock, ids IDGenerator) *CreateCommission {
	clock, ids = defaults(clock, ids)
	return &CreateCommission{repo: repo, clock: clock, ids: ids}
}

// Execute creates the commission. Nothing is written when validation fails.
func (uc *CreateCommission) Execute(ctx context.Context, input CreateCommissionInput) (*domain.Commission, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewCommission(domain.NewCommissionID(uc.ids()), input.OwnerID, input.Description, status, uc.clock())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
