package commission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/lock"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/memory"
)

func pngUpload(name string) *ports.ImageUpload {
	return &ports.ImageUpload{Filename: name, Body: strings.NewReader("img")}
}

func TestAddUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	images := &fakeImages{}
	enq := &fakeEnqueuer{}
	c := seedCommission(t, repo, "1")
	uc := NewAddUpdate(repo, images, enq, ImagePolicyReject, fixedClock, uuid.New)

	res, err := uc.Execute(ctx, AddUpdateInput{
		CommissionID:    c.ID.String(),
		Text:            "  lineart done ",
		ProgressPercent: 150,
		Visible:         true,
		Image:           pngUpload("line.png"),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	u := res.Update
	if u.Text != "lineart done" || u.ProgressPercent != 100 || !u.ShowPercent || !u.Visible {
		t.Errorf("update = %+v", u)
	}
	if u.Image == nil || *u.Image != "/uploads/1-line.png" {
		t.Errorf("Image = %v", u.Image)
	}
	if len(enq.events) != 1 || enq.events[0].Event != ports.EventUpdateVisible || enq.events[0].OwnerID != "1" {
		t.Errorf("events = %+v", enq.events)
	}

	stored, _ := repo.GetByID(ctx, c.ID)
	if len(stored.Updates) != 1 || stored.Updates[0].ID != u.ID {
		t.Errorf("stored updates = %+v", stored.Updates)
	}
}

func TestAddUpdate_HiddenDoesNotNotify(t *testing.T) {
	repo := newCountingRepo()
	enq := &fakeEnqueuer{}
	c := seedCommission(t, repo, "1")
	uc := NewAddUpdate(repo, &fakeImages{}, enq, ImagePolicyReject, fixedClock, uuid.New)
	if _, err := uc.Execute(context.Background(), AddUpdateInput{CommissionID: c.ID.String(), Text: "draft"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(enq.events) != 0 {
		t.Errorf("events = %+v, want none", enq.events)
	}
}

func TestAddUpdate_EnqueueFailureIsIgnored(t *testing.T) {
	repo := newCountingRepo()
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	c := seedCommission(t, repo, "1")
	uc := NewAddUpdate(repo, &fakeImages{}, enq, ImagePolicyReject, fixedClock, uuid.New)
	if _, err := uc.Execute(context.Background(), AddUpdateInput{CommissionID: c.ID.String(), Text: "x", Visible: true}); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
}

func TestAddUpdate_Rejections(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	images := &fakeImages{}
	c := seedCommission(t, repo, "1")
	base := repo.Writes()
	uc := NewAddUpdate(repo, images, &fakeEnqueuer{}, ImagePolicyReject, fixedClock, uuid.New)

	if _, err := uc.Execute(ctx, AddUpdateInput{CommissionID: c.ID.String(), Text: "   "}); !errors.Is(err, domerrors.ErrValidation) {
		t.Errorf("empty text error = %v, want ErrValidation", err)
	}
	_, err := uc.Execute(ctx, AddUpdateInput{CommissionID: uuid.NewString(), Text: "x"})
	if !errors.Is(err, domerrors.ErrValidation) || !errors.Is(err, domerrors.ErrCommissionNotFound) {
		t.Errorf("missing commission error = %v, want ErrValidation and ErrCommissionNotFound", err)
	}
	if _, err := uc.Execute(ctx, AddUpdateInput{CommissionID: c.ID.String(), Text: "x", Image: pngUpload("a.gif")}); !errors.Is(err, domerrors.ErrUnsupportedImage) {
		t.Errorf("gif error = %v, want ErrUnsupportedImage", err)
	}
	if repo.Writes() != base {
		t.Errorf("writes = %d, want %d", repo.Writes(), base)
	}
	if len(images.saved) != 0 {
		t.Errorf("saved images = %v, want none", images.saved)
	}
}

func TestAddUpdate_IgnorePolicyDropsImage(t *testing.T) {
	repo := newCountingRepo()
	c := seedCommission(t, repo, "1")
	uc := NewAddUpdate(repo, &fakeImages{}, &fakeEnqueuer{}, ImagePolicyIgnore, fixedClock, uuid.New)
	res, err := uc.Execute(context.Background(), AddUpdateInput{CommissionID: c.ID.String(), Text: "x", Image: pngUpload("a.gif")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.ImageRejected || res.Update.Image != nil {
		t.Errorf("result = %+v, want rejected image and no ref", res)
	}
}

func TestAddUpdate_RemovesImageWhenAppendFails(t *testing.T) {
	inner := memory.NewCommissionRepository()
	c := seedCommission(t, inner, "1")
	images := &fakeImages{}
	uc := NewAddUpdate(failingAppendRepo{inner}, images, &fakeEnqueuer{}, ImagePolicyReject, fixedClock, uuid.New)
	_, err := uc.Execute(context.Background(), AddUpdateInput{CommissionID: c.ID.String(), Text: "x", Image: pngUpload("a.png")})
	if !errors.Is(err, errStore) {
		t.Fatalf("Execute() error = %v, want errStore", err)
	}
	if len(images.removed) != 1 || images.removed[0] != images.saved[0] {
		t.Errorf("removed = %v, saved = %v", images.removed, images.saved)
	}
}

func TestParseImagePolicy(t *testing.T) {
	for in, want := range map[string]ImagePolicy{"": ImagePolicyReject, "error": ImagePolicyReject, "ignore": ImagePolicyIgnore} {
		got, err := ParseImagePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseImagePolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseImagePolicy("drop"); err == nil {
		t.Error("ParseImagePolicy(drop) error = nil")
	}
}

func addTexts(t *testing.T, repo ports.CommissionRepository, c *domain.Commission, texts ...string) []domain.Update {
	t.Helper()
	uc := NewAddUpdate(repo, &fakeImages{}, &fakeEnqueuer{}, ImagePolicyReject, fixedClock, uuid.New)
	var out []domain.Update
	for _, text := range texts {
		res, err := uc.Execute(context.Background(), AddUpdateInput{CommissionID: c.ID.String(), Text: text})
		if err != nil {
			t.Fatalf("AddUpdate.Execute(%q) error = %v", text, err)
		}
		out = append(out, res.Update)
	}
	return out
}

func TestToggleUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	enq := &fakeEnqueuer{}
	c := seedCommission(t, repo, "1")
	ups := addTexts(t, repo, c, "a", "b")
	uc := NewToggleUpdate(repo, noopLocker{}, enq, fixedClock)

	got, err := uc.Execute(ctx, ToggleUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByID(ups[1].ID), Field: ToggleVisible})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !got.Visible || got.Text != "b" {
		t.Errorf("toggled = %+v", got)
	}
	if len(enq.events) != 1 || enq.events[0].UpdateID != ups[1].ID.String() {
		t.Errorf("events = %+v", enq.events)
	}

	got, err = uc.Execute(ctx, ToggleUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByIndex(0), Field: TogglePercent})
	if err != nil {
		t.Fatalf("Execute(percent) error = %v", err)
	}
	if got.ShowPercent {
		t.Error("ShowPercent = true after toggle")
	}

	// toggling twice restores the original document
	if _, err := uc.Execute(ctx, ToggleUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByIndex(0), Field: TogglePercent}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	stored, _ := repo.GetByID(ctx, c.ID)
	if !stored.Updates[0].ShowPercent || stored.Updates[0].Visible {
		t.Errorf("update 0 = %+v", stored.Updates[0])
	}
}

func TestToggleUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	c := seedCommission(t, repo, "1")
	addTexts(t, repo, c, "a")
	uc := NewToggleUpdate(repo, noopLocker{}, &fakeEnqueuer{}, fixedClock)
	before := repo.Writes()

	cases := []ToggleUpdateInput{
		{CommissionID: c.ID.String(), Ref: domain.RefByIndex(1)},
		{CommissionID: c.ID.String(), Ref: domain.RefByIndex(-1)},
		{CommissionID: c.ID.String(), Ref: domain.UpdateRef{ID: uuid.NewString()}},
		{CommissionID: uuid.NewString(), Ref: domain.RefByIndex(0)},
	}
	for _, in := range cases {
		if _, err := uc.Execute(ctx, in); !errors.Is(err, domerrors.ErrNotFound) {
			t.Errorf("Execute(%v) error = %v, want ErrNotFound", in.Ref, err)
		}
	}
	if repo.Writes() != before {
		t.Error("failed toggle reached the store")
	}
}

func TestDeleteUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	enq := &fakeEnqueuer{}
	c := seedCommission(t, repo, "1")
	add := NewAddUpdate(repo, &fakeImages{}, enq, ImagePolicyReject, fixedClock, uuid.New)
	for _, in := range []AddUpdateInput{
		{CommissionID: c.ID.String(), Text: "a"},
		{CommissionID: c.ID.String(), Text: "b", Image: pngUpload("b.png")},
		{CommissionID: c.ID.String(), Text: "c"},
	} {
		if _, err := add.Execute(ctx, in); err != nil {
			t.Fatalf("AddUpdate.Execute() error = %v", err)
		}
	}

	uc := NewDeleteUpdate(repo, noopLocker{}, enq, fixedClock)
	removed, err := uc.Execute(ctx, DeleteUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByIndex(1)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if removed.Text != "b" {
		t.Errorf("removed = %+v", removed)
	}
	stored, _ := repo.GetByID(ctx, c.ID)
	if len(stored.Updates) != 2 || stored.Updates[0].Text != "a" || stored.Updates[1].Text != "c" {
		t.Errorf("remaining = %+v", stored.Updates)
	}
	if len(enq.cleanups) != 1 || enq.cleanups[0][0] != "/uploads/1-b.png" {
		t.Errorf("cleanups = %v", enq.cleanups)
	}
	if _, err := uc.Execute(ctx, DeleteUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByIndex(2)}); !errors.Is(err, domerrors.ErrUpdateNotFound) {
		t.Errorf("Execute(out of range) error = %v", err)
	}
}

func TestToggleUpdate_ConcurrentTogglesUnderLock(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCommissionRepository()
	c := seedCommission(t, repo, "1")
	addTexts(t, repo, c, "a", "b")
	uc := NewToggleUpdate(repo, lock.NewMemoryLocker(), &fakeEnqueuer{}, fixedClock)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := uc.Execute(ctx, ToggleUpdateInput{CommissionID: c.ID.String(), Ref: domain.RefByIndex(i), Field: ToggleVisible}); err != nil {
				t.Errorf("Execute(%d) error = %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	stored, _ := repo.GetByID(ctx, c.ID)
	if !stored.Updates[0].Visible || !stored.Updates[1].Visible {
		t.Errorf("updates = %+v, want both visible", stored.Updates)
	}
}

func TestSave_StaleWriteConflicts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCommissionRepository()
	c := seedCommission(t, repo, "1")
	addTexts(t, repo, c, "a")
	// c was loaded before the append, so its version is stale
	if err := c.ToggleVisibility(0, testNow); !errors.Is(err, domerrors.ErrUpdateNotFound) {
		t.Fatalf("ToggleVisibility on stale copy error = %v", err)
	}
	if err := repo.Save(ctx, c); !errors.Is(err, domerrors.ErrConflict) {
		t.Errorf("Save() error = %v, want ErrConflict", err)
	}
}
