package domain

import "testing"

func TestAdminSet(t *testing.T) {
	set, err := NewAdminSet("111", " 222 ", "", "111")
	if err != nil {
		t.Fatalf("NewAdminSet() error = %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	if !set.IsAdmin(&Identity{ID: "222"}) {
		t.Error("222 should be admin")
	}
	if set.IsAdmin(&Identity{ID: "333"}) {
		t.Error("333 should not be admin")
	}
	if set.IsAdmin(nil) {
		t.Error("anonymous caller should not be admin")
	}
	if got := set.IDs(); len(got) != 2 || got[0] != "111" || got[1] != "222" {
		t.Errorf("IDs() = %v", got)
	}
	if _, err := NewAdminSet("12a"); err == nil {
		t.Error("non-numeric id should be rejected")
	}
}

func TestEmptyAdminSetGrantsNothing(t *testing.T) {
	var set AdminSet
	if set.IsAdmin(&Identity{ID: ""}) {
		t.Error("empty id matched empty set")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		id   Identity
		want string
	}{
		{Identity{Username: "kat", Discriminator: "0420"}, "kat#0420"},
		{Identity{Username: "kat", Discriminator: "0"}, "kat"},
		{Identity{Username: "kat"}, "kat"},
	}
	for _, tc := range cases {
		if got := tc.id.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.id, got, tc.want)
		}
	}
}
