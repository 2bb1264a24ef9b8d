package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hosamatch/backend/internal/models"
)

func TestCreateSchool(t *testing.T) {
	db := setupTestDB(t)
	schools := NewSchoolService(db)
	ctx := context.Background()

	creator := createUser(t, db, "creator@example.com")

	t.Run("creator becomes the sole admin atomically", func(t *testing.T) {
		school, err := schools.CreateSchool(ctx, CreateSchoolInput{
			Name:        "  Lincoln High School  ",
			Description: "A HOSA chapter",
		}, creator.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if school.Name != "Lincoln High School" {
			t.Fatalf("expected the name trimmed, got %q", school.Name)
		}
		if len(school.AdminIDs) != 1 || school.AdminIDs[0] != creator.ID.String() {
			t.Fatalf("expected the creator as sole admin, got %v", school.AdminIDs)
		}

		var count int64
		db.Model(&models.SchoolAdmin{}).Where("school_id = ?", school.ID).Count(&count)
		if count != 1 {
			t.Fatalf("expected exactly one admin row, got %d", count)
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		if _, err := schools.CreateSchool(ctx, CreateSchoolInput{Name: "   "}, creator.ID); !errors.Is(err, ErrNameRequired) {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
	})
}

func TestUpdateSchoolAdminSet(t *testing.T) {
	db := setupTestDB(t)
	schools := NewSchoolService(db)
	ctx := context.Background()

	founder := createUser(t, db, "founder@example.com")
	coAdmin := createUser(t, db, "coadmin@example.com")

	school, err := schools.CreateSchool(ctx, CreateSchoolInput{Name: "Lincoln High School"}, founder.ID)
	if err != nil {
		t.Fatalf("failed creating school: %v", err)
	}

	t.Run("replacement applies exactly the sent set", func(t *testing.T) {
		updated, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{
			AdminIDs: []string{founder.ID.String(), coAdmin.ID.String()},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.AdminIDs) != 2 {
			t.Fatalf("expected 2 admins, got %v", updated.AdminIDs)
		}
	})

	t.Run("duplicates collapse before writing", func(t *testing.T) {
		updated, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{
			AdminIDs: []string{founder.ID.String(), founder.ID.String(), coAdmin.ID.String()},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.AdminIDs) != 2 {
			t.Fatalf("expected duplicates collapsed, got %v", updated.AdminIDs)
		}

		var count int64
		db.Model(&models.SchoolAdmin{}).Where("school_id = ?", school.ID).Count(&count)
		if count != 2 {
			t.Fatalf("expected 2 admin rows, got %d", count)
		}
	})

	t.Run("an empty set is rejected", func(t *testing.T) {
		if _, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{AdminIDs: []string{}}); !errors.Is(err, ErrNoAdmins) {
			t.Fatalf("expected ErrNoAdmins, got %v", err)
		}
	})

	t.Run("unknown users are rejected and nothing changes", func(t *testing.T) {
		_, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{
			AdminIDs: []string{founder.ID.String(), "1b671a64-40d5-491e-99b0-da01ff1f3341"},
		})
		if !errors.Is(err, ErrUnknownAdmin) {
			t.Fatalf("expected ErrUnknownAdmin, got %v", err)
		}

		var count int64
		db.Model(&models.SchoolAdmin{}).Where("school_id = ?", school.ID).Count(&count)
		if count != 2 {
			t.Fatalf("expected the admin set untouched on failure, got %d rows", count)
		}
	})

	t.Run("a malformed id is treated as unknown", func(t *testing.T) {
		_, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{
			AdminIDs: []string{"not-a-uuid"},
		})
		if !errors.Is(err, ErrUnknownAdmin) {
			t.Fatalf("expected ErrUnknownAdmin, got %v", err)
		}
	})

	t.Run("removal shrinks the set", func(t *testing.T) {
		updated, err := schools.UpdateSchool(ctx, school.ID, UpdateSchoolInput{
			AdminIDs: []string{founder.ID.String()},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.AdminIDs) != 1 || updated.AdminIDs[0] != founder.ID.String() {
			t.Fatalf("expected only the founder left, got %v", updated.AdminIDs)
		}
	})
}

func TestGraphProjection(t *testing.T) {
	db := setupTestDB(t)
	schools := NewSchoolService(db)
	ctx := context.Background()

	founder := createUser(t, db, "founder@example.com")
	school, err := schools.CreateSchool(ctx, CreateSchoolInput{Name: "Lincoln High School"}, founder.ID)
	if err != nil {
		t.Fatalf("failed creating school: %v", err)
	}

	if _, err := schools.CreateEvent(ctx, school.ID, CreateEventInput{
		Name:   "CPR/First Aid",
		Labels: []string{"emergency", "emergency"},
	}, founder.ID); err != nil {
		t.Fatalf("failed creating event: %v", err)
	}

	graph, err := schools.Graph(ctx, school.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.EventsArr) != 1 {
		t.Fatalf("expected 1 event in the projection, got %d", len(graph.EventsArr))
	}
	if len(graph.EventsArr[0].Labels) != 1 {
		t.Fatalf("expected event labels deduplicated, got %v", graph.EventsArr[0].Labels)
	}
	if len(graph.AdminsArr) != 1 || graph.AdminsArr[0].ID != founder.ID {
		t.Fatalf("expected the founder resolved in AdminsArr, got %v", graph.AdminsArr)
	}

	// The projection is recomputed per read, so a new event shows up on
	// the next call without any cache involvement.
	if _, err := schools.CreateEvent(ctx, school.ID, CreateEventInput{Name: "Public Health"}, founder.ID); err != nil {
		t.Fatalf("failed creating event: %v", err)
	}
	graph, err = schools.Graph(ctx, school.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.EventsArr) != 2 {
		t.Fatalf("expected 2 events after the second create, got %d", len(graph.EventsArr))
	}
}

func TestListUsersBySchool(t *testing.T) {
	db := setupTestDB(t)
	schools := NewSchoolService(db)
	ctx := context.Background()

	admin := createUser(t, db, "admin@example.com")
	student := createUser(t, db, "student@example.com")

	school, err := schools.CreateSchool(ctx, CreateSchoolInput{Name: "Lincoln High School"}, admin.ID)
	if err != nil {
		t.Fatalf("failed creating school: %v", err)
	}

	for _, user := range []*models.User{admin, student} {
		if err := db.Exec("UPDATE users SET school_id = ? WHERE id = ?", school.ID, user.ID).Error; err != nil {
			t.Fatalf("failed enrolling user: %v", err)
		}
	}

	all, err := schools.ListUsersBySchool(ctx, school.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 members, got %d", len(all))
	}

	nonAdmins, err := schools.ListUsersBySchool(ctx, school.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nonAdmins) != 1 || nonAdmins[0].ID != student.ID {
		t.Fatalf("expected only the student, got %v", nonAdmins)
	}
}
