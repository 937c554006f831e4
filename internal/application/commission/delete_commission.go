package commission

import (
	"context"
	"errors"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// DeleteCommissionResult tells the caller whether anything was removed.
type DeleteCommissionResult struct {
	Deleted bool
	OwnerID string
}

// DeleteCommission removes a commission with all its updates and schedules
// removal of their images. Deleting an absent id succeeds with Deleted=false.
type DeleteCommission struct {
	repo     ports.CommissionRepository
	enqueuer ports.TaskEnqueuer
}

// NewDeleteCommission builds the use case.
func NewDeleteCommission(repo ports.CommissionRepository, enqueuer ports.TaskEnqueuer) *DeleteCommission {
	return &DeleteCommission{repo: repo, enqueuer: enqueuer}
}

// Execute deletes the commission.
func (uc *DeleteCommission) Execute(ctx context.Context, rawID string) (*DeleteCommissionResult, error) {
	id, err := domain.ParseCommissionID(rawID)
	if err != nil {
		if errors.Is(err, domerrors.ErrNotFound) {
			return &DeleteCommissionResult{}, nil
		}
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &DeleteCommissionResult{Deleted: deleted}
	if c != nil {
		result.OwnerID = c.OwnerID
		if images := c.ImagePaths(); deleted && len(images) > 0 {
			// best-effort; orphans are also caught by the retention sweep
			_ = uc.enqueuer.EnqueueImageCleanup(ctx, images)
		}
	}
	return result, nil
}
