package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// UpdateID is the stable identifier of one update within a commission.
type UpdateID struct{ uuid.UUID }

// NewUpdateID creates a new UpdateID from uuid.
func NewUpdateID(id uuid.UUID) UpdateID { return UpdateID{UUID: id} }

// String returns the canonical string form.
func (u UpdateID) String() string { return u.UUID.String() }

// Update is a timestamped progress entry attached to a Commission.
type Update struct {
	ID              UpdateID
	Text            string
	Date            time.Time
	Visible         bool
	ProgressPercent int
	ShowPercent     bool
	Image           *string
}

// UpdateInput is the admin-supplied content of a new update.
type UpdateInput struct {
	Text            string
	ProgressPercent int
	Visible         bool
	Image           *string
}

// NewUpdate builds an update; ShowPercent always starts true.
func NewUpdate(id UpdateID, in UpdateInput, now time.Time) (Update, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Update{}, domerrors.Validation("update text is required")
	}
	var image *string
	if in.Image != nil && strings.TrimSpace(*in.Image) != "" {
		ref := strings.TrimSpace(*in.Image)
		image = &ref
	}
	return Update{
		ID:              id,
		Text:            text,
		Date:            now.UTC(),
		Visible:         in.Visible,
		ProgressPercent: ClampPercent(in.ProgressPercent),
		ShowPercent:     true,
		Image:           image,
	}, nil
}

// ParsePercent coerces form input to an integer percent in [0,100].
// Unparseable input yields 0; fractional values are truncated.
func ParsePercent(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	if f > 100 {
		return 100
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

// ClampPercent bounds p to [0,100].
func ClampPercent(p int) int {
	return max(0, min(100, p))
}

// ParseCheckbox reads an HTML checkbox value: "on" means checked, anything
// else (including absence) means unchecked.
func ParseCheckbox(v string) bool {
	return v == "on"
}

func (u Update) clone() Update {
	if u.Image != nil {
		img := *u.Image
		u.Image = &img
	}
	return u
}

// UpdateRef addresses one update by stable id, or by zero-based position
// when only the legacy form field is available.
type UpdateRef struct {
	ID    string
	Index *int
}

// RefByIndex builds a positional reference.
func RefByIndex(i int) UpdateRef { return UpdateRef{Index: &i} }

// RefByID builds a stable-id reference.
func RefByID(id UpdateID) UpdateRef { return UpdateRef{ID: id.String()} }

// String renders the reference for logs.
func (r UpdateRef) String() string {
	if r.ID != "" {
		return "id:" + r.ID
	}
	if r.Index != nil {
		return "index:" + strconv.Itoa(*r.Index)
	}
	return "none"
}

// Resolve returns the current position of the referenced update. Positional
// references are taken at face value: a stale index addresses whatever entry
// now occupies that slot.
func (c *Commission) Resolve(ref UpdateRef) (int, error) {
	if ref.ID != "" {
		id, err := uuid.Parse(strings.TrimSpace(ref.ID))
		if err != nil {
			return 0, domerrors.ErrUpdateNotFound
		}
		for i, u := range c.Updates {
			if u.ID.UUID == id {
				return i, nil
			}
		}
		return 0, domerrors.ErrUpdateNotFound
	}
	if ref.Index == nil {
		return 0, domerrors.Validation("update id or index is required")
	}
	if err := c.checkIndex(*ref.Index); err != nil {
		return 0, err
	}
	return *ref.Index, nil
}

// AppendUpdate adds u at the end of the list.
func (c *Commission) AppendUpdate(u Update, now time.Time) error {
	if strings.TrimSpace(u.Text) == "" {
		return domerrors.Validation("update text is required")
	}
	u.ProgressPercent = ClampPercent(u.ProgressPercent)
	c.Updates = append(c.Updates, u)
	c.touch(now)
	return nil
}

// ToggleVisibility flips the visible flag of the update at index.
func (c *Commission) ToggleVisibility(index int, now time.Time) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Updates[index].Visible = !c.Updates[index].Visible
	c.touch(now)
	return nil
}

// TogglePercentVisibility flips the showPercent flag of the update at index.
func (c *Commission) TogglePercentVisibility(index int, now time.Time) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Updates[index].ShowPercent = !c.Updates[index].ShowPercent
	c.touch(now)
	return nil
}

// RemoveUpdateAt deletes the update at index; later entries shift down by one.
func (c *Commission) RemoveUpdateAt(index int, now time.Time) (Update, error) {
	if err := c.checkIndex(index); err != nil {
		return Update{}, err
	}
	removed := c.Updates[index]
	c.Updates = append(c.Updates[:index:index], c.Updates[index+1:]...)
	c.touch(now)
	return removed, nil
}

func (c *Commission) checkIndex(index int) error {
	if index < 0 || index >= len(c.Updates) {
		return domerrors.ErrUpdateNotFound
	}
	return nil
}

// VisibleUpdate is what a non-admin viewer may see of one update.
// ProgressPercent is nil when the admin hid the percent.
type VisibleUpdate struct {
	ID              UpdateID
	Text            string
	Date            time.Time
	ProgressPercent *int
	Image           *string
}

// VisibleProjection returns the visible updates in list order. It never
// mutates the commission.
func (c *Commission) VisibleProjection() []VisibleUpdate {
	out := make([]VisibleUpdate, 0, len(c.Updates))
	for _, u := range c.Updates {
		if !u.Visible {
			continue
		}
		v := VisibleUpdate{
			ID:   u.ID,
			Text: u.Text,
			Date: u.Date,
		}
		if u.ShowPercent {
			p := u.ProgressPercent
			v.ProgressPercent = &p
		}
		if u.Image != nil {
			img := *u.Image
			v.Image = &img
		}
		out = append(out, v)
	}
	return out
}
