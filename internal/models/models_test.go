package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidGrade(t *testing.T) {
	cases := []struct {
		grade int
		valid bool
	}{
		{GradeUnset, false},
		{8, false},
		{9, true},
		{12, true},
		{13, false},
		{-1, false},
	}
	for _, tc := range cases {
		if got := ValidGrade(tc.grade); got != tc.valid {
			t.Errorf("ValidGrade(%d) = %v, want %v", tc.grade, got, tc.valid)
		}
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Dedupe = %v, want first-occurrence order %v", got, want)
		}
	}
}

func TestKnownEventCode(t *testing.T) {
	if !KnownEventCode("CPR") {
		t.Fatal("expected CPR recognized")
	}
	if KnownEventCode("cpr") {
		t.Fatal("expected codes matched case-sensitively")
	}
	if KnownEventCode("notARealEvent") {
		t.Fatal("expected an unknown code rejected")
	}
}

func TestFillAdminIDs(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	school := School{
		Admins: []SchoolAdmin{
			{UserID: u1},
			{UserID: u2},
		},
	}
	school.FillAdminIDs()

	if len(school.AdminIDs) != 2 || school.AdminIDs[0] != u1.String() || school.AdminIDs[1] != u2.String() {
		t.Fatalf("expected the admin rows projected in order, got %v", school.AdminIDs)
	}

	empty := School{}
	empty.FillAdminIDs()
	if empty.AdminIDs == nil || len(empty.AdminIDs) != 0 {
		t.Fatalf("expected an empty, non-nil projection, got %v", empty.AdminIDs)
	}
}
