package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// ImagePolicy selects what happens when an upload has a disallowed type.
type ImagePolicy string

const (
	// ImagePolicyReject fails the whole request.
	ImagePolicyReject ImagePolicy = "error"
	// ImagePolicyIgnore drops the image and stores the update without it.
	ImagePolicyIgnore ImagePolicy = "ignore"
)

// ParseImagePolicy accepts "error" or "ignore"; empty means ImagePolicyReject.
func ParseImagePolicy(s string) (ImagePolicy, error) {
	switch ImagePolicy(s) {
	case "", ImagePolicyReject:
		return ImagePolicyReject, nil
	case ImagePolicyIgnore:
		return ImagePolicyIgnore, nil
	}
	return "", fmt.Errorf("unknown image policy %q", s)
}

// AddUpdateInput is the admin add-update form.
type AddUpdateInput struct {
	CommissionID    string
	Text            string
	ProgressPercent int
	Visible         bool
	Image           *ports.ImageUpload
}

// AddUpdateResult carries the stored update and whether the image was dropped.
type AddUpdateResult struct {
	Update        domain.Update
	OwnerID       string
	ImageRejected bool
}

// AddUpdate appends a progress update to a commission.
type AddUpdate struct {
	repo     ports.CommissionRepository
	images   ports.ImageStore
	enqueuer ports.TaskEnqueuer
	policy   ImagePolicy
	clock    Clock
	ids      IDGenerator
}

// NewAddUpdate builds the use case.
func NewAddUpdate(repo ports.CommissionRepository, images ports.ImageStore, enqueuer ports.TaskEnqueuer, policy ImagePolicy, clock Clock, ids IDGenerator) *AddUpdate {
	clock, ids = defaults(clock, ids)
	if policy == "" {
		policy = ImagePolicyReject
	}
	return &AddUpdate{repo: repo, images: images, enqueuer: enqueuer, policy: policy, clock: clock, ids: ids}
}

// Execute validates the input, stores the optional image and appends the
// update. An image is never left on disk for an update that was not stored.
func (uc *AddUpdate) Execute(ctx context.Context, input AddUpdateInput) (*AddUpdateResult, error) {
	now := uc.clock()
	update, err := domain.NewUpdate(domain.NewUpdateID(uc.ids()), domain.UpdateInput{
		Text:            input.Text,
		ProgressPercent: input.ProgressPercent,
		Visible:         input.Visible,
	}, now)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseCommissionID(input.CommissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domerrors.ErrValidation, err)
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %w", domerrors.ErrValidation, domerrors.ErrCommissionNotFound)
	}

	result := &AddUpdateResult{OwnerID: c.OwnerID}
	if input.Image != nil {
		ref, err := uc.images.Save(ctx, *input.Image)
		switch {
		case errors.Is(err, domerrors.ErrUnsupportedImage) && uc.policy == ImagePolicyIgnore:
			result.ImageRejected = true
		case err != nil:
			return nil, err
		default:
			update.Image = &ref
		}
	}

	if err := uc.repo.AppendUpdate(ctx, id, update, now); err != nil {
		if update.Image != nil {
			_ = uc.images.Remove(ctx, *update.Image)
		}
		if errors.Is(err, domerrors.ErrCommissionNotFound) {
			return nil, fmt.Errorf("%w: %w", domerrors.ErrValidation, err)
		}
		return nil, err
	}
	result.Update = update
	if update.Visible {
		notifyVisible(ctx, uc.enqueuer, c.OwnerID, id, update)
	}
	return result, nil
}

// notifyVisible enqueues the owner notification for a newly visible update.
func notifyVisible(ctx context.Context, enqueuer ports.TaskEnqueuer, ownerID string, id domain.CommissionID, u domain.Update) {
	// best-effort; the update is already stored
	_ = enqueuer.EnqueueWebhook(ctx, ports.AuditEvent{
		Event:        ports.EventUpdateVisible,
		OwnerID:      ownerID,
		CommissionID: id.String(),
		UpdateID:     u.ID.String(),
		Text:         u.Text,
		Success:      true,
	})
}
