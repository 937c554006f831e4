package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// CommissionID is a value object for commission identity.
type CommissionID struct{ uuid.UUID }

// NewCommissionID creates a new CommissionID from uuid.
func NewCommissionID(id uuid.UUID) CommissionID { return CommissionID{UUID: id} }

// ParseCommissionID parses the canonical string form. Malformed ids are
// reported as not found since no commission can carry them.
func ParseCommissionID(s string) (CommissionID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return CommissionID{}, domerrors.ErrCommissionNotFound
	}
	return CommissionID{UUID: id}, nil
}

// String returns the canonical string form.
func (c CommissionID) String() string { return c.UUID.String() }

// Status is the commission workflow state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// ParseStatus maps form input to a Status. Empty input defaults to pending;
// anything unrecognised is a validation error.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StatusPending, nil
	case "pending":
		return StatusPending, nil
	case "in_progress", "in progress", "in-progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	}
	return "", domerrors.Validation("unknown status " + strings.TrimSpace(s))
}

// Label returns the human-readable status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Commission is a tracked unit of client work owned by one external identity.
type Commission struct {
	ID          CommissionID
	OwnerID     string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Updates     []Update
	// Version increments on every persisted mutation; stores compare it on save.
	Version int64
}

// NewCommission validates input and builds a commission with no updates.
func NewCommission(id CommissionID, ownerID, description string, status Status, now time.Time) (*Commission, error) {
	ownerID = strings.TrimSpace(ownerID)
	description = strings.TrimSpace(description)
	if ownerID == "" {
		return nil, domerrors.Validation("owner id is required")
	}
	if description == "" {
		return nil, domerrors.Validation("description is required")
	}
	if status == "" {
		status = StatusPending
	}
	if !status.valid() {
		return nil, domerrors.Validation("unknown status " + string(status))
	}
	now = now.UTC()
	return &Commission{
		ID:          id,
		OwnerID:     ownerID,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Updates:     []Update{},
		Version:     1,
	}, nil
}

// Edit replaces description and status.
func (c *Commission) Edit(description string, status Status, now time.Time) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return domerrors.Validation("description is required")
	}
	if !status.valid() {
		return domerrors.Validation("unknown status " + string(status))
	}
	c.Description = description
	c.Status = status
	c.touch(now)
	return nil
}

// ImagePaths returns the image references held by the commission's updates.
func (c *Commission) ImagePaths() []string {
	var out []string
	for _, u := range c.Updates {
		if u.Image != nil {
			out = append(out, *u.Image)
		}
	}
	return out
}

// Clone returns a deep copy so stores never share update slices with callers.
func (c *Commission) Clone() *Commission {
	cp := *c
	cp.Updates = make([]Update, len(c.Updates))
	for i, u := range c.Updates {
		cp.Updates[i] = u.clone()
	}
	return &cp
}

func (c *Commission) touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (s Status) valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
