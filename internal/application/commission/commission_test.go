package commission

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

func TestCreateCommission(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	uc := NewCreateCommission(repo, fixedClock, uuid.New)

	c, err := uc.Execute(ctx, CreateCommissionInput{OwnerID: " 42 ", Description: "Ref sheet", Status: "in progress"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if c.OwnerID != "42" || c.Status != domain.StatusInProgress || len(c.Updates) != 0 {
		t.Errorf("Execute() = %+v", c)
	}
	if !c.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", c.CreatedAt, testNow)
	}
	got, _ := repo.GetByID(ctx, c.ID)
	if got == nil {
		t.Fatal("commission not stored")
	}
}

func TestCreateCommission_ValidationWritesNothing(t *testing.T) {
	repo := newCountingRepo()
	uc := NewCreateCommission(repo, fixedClock, uuid.New)
	cases := []CreateCommissionInput{
		{OwnerID: "", Description: "x"},
		{OwnerID: "1", Description: "   "},
		{OwnerID: "1", Description: "x", Status: "shipped"},
	}
	for _, in := range cases {
		if _, err := uc.Execute(context.Background(), in); !errors.Is(err, domerrors.ErrValidation) {
			t.Errorf("Execute(%+v) error = %v, want ErrValidation", in, err)
		}
	}
	if repo.Writes() != 0 {
		t.Errorf("writes = %d, want 0", repo.Writes())
	}
}

func TestEditCommission(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	c := seedCommission(t, repo, "1")
	uc := NewEditCommission(repo, fixedClock)

	edited, err := uc.Execute(ctx, EditCommissionInput{ID: c.ID.String(), Description: "Full body", Status: "completed"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if edited.Description != "Full body" || edited.Status != domain.StatusCompleted {
		t.Errorf("Execute() = %+v", edited)
	}

	if _, err := uc.Execute(ctx, EditCommissionInput{ID: uuid.NewString(), Description: "x"}); !errors.Is(err, domerrors.ErrCommissionNotFound) {
		t.Errorf("Execute(missing) error = %v, want ErrCommissionNotFound", err)
	}
	before := repo.Writes()
	if _, err := uc.Execute(ctx, EditCommissionInput{ID: c.ID.String(), Description: ""}); !errors.Is(err, domerrors.ErrValidation) {
		t.Errorf("Execute(empty description) error = %v, want ErrValidation", err)
	}
	if repo.Writes() != before {
		t.Error("rejected edit reached the store")
	}
}

func TestDeleteCommission(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	images := &fakeImages{}
	enq := &fakeEnqueuer{}
	c := seedCommission(t, repo, "1")
	add := NewAddUpdate(repo, images, enq, ImagePolicyReject, fixedClock, uuid.New)
	if _, err := add.Execute(ctx, AddUpdateInput{CommissionID: c.ID.String(), Text: "wip", Image: pngUpload("a.png")}); err != nil {
		t.Fatalf("AddUpdate.Execute() error = %v", err)
	}

	uc := NewDeleteCommission(repo, enq)
	res, err := uc.Execute(ctx, c.ID.String())
	if err != nil || !res.Deleted || res.OwnerID != "1" {
		t.Fatalf("Execute() = %+v, %v", res, err)
	}
	if len(enq.cleanups) != 1 || enq.cleanups[0][0] != "/uploads/1-a.png" {
		t.Errorf("cleanups = %v", enq.cleanups)
	}

	res, err = uc.Execute(ctx, c.ID.String())
	if err != nil || res.Deleted {
		t.Errorf("second Execute() = %+v, %v; want not deleted, nil", res, err)
	}
	res, err = uc.Execute(ctx, "not-a-uuid")
	if err != nil || res.Deleted {
		t.Errorf("Execute(malformed) = %+v, %v", res, err)
	}
}

func TestListCommissions_ForOwnerProjectsVisible(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	enq := &fakeEnqueuer{}
	mine := seedCommission(t, repo, "1")
	seedCommission(t, repo, "2")
	add := NewAddUpdate(repo, &fakeImages{}, enq, ImagePolicyReject, fixedClock, uuid.New)
	for _, in := range []AddUpdateInput{
		{CommissionID: mine.ID.String(), Text: "hidden", ProgressPercent: 10},
		{CommissionID: mine.ID.String(), Text: "shown", ProgressPercent: 40, Visible: true},
	} {
		if _, err := add.Execute(ctx, in); err != nil {
			t.Fatalf("AddUpdate.Execute() error = %v", err)
		}
	}

	uc := NewListCommissions(repo)
	list, err := uc.ForOwner(ctx, "1")
	if err != nil {
		t.Fatalf("ForOwner() error = %v", err)
	}
	if len(list) != 1 || len(list[0].Updates) != 1 {
		t.Fatalf("ForOwner() = %+v", list)
	}
	u := list[0].Updates[0]
	if u.Text != "shown" || u.ProgressPercent == nil || *u.ProgressPercent != 40 {
		t.Errorf("visible update = %+v", u)
	}

	none, err := uc.ForOwner(ctx, "999")
	if err != nil || len(none) != 0 {
		t.Errorf("ForOwner(unknown) = %v, %v", none, err)
	}
	all, _ := uc.All(ctx)
	if len(all) != 2 {
		t.Errorf("All() len = %d, want 2", len(all))
	}
}
