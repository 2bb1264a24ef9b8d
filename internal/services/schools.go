package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/models"
	"gorm.io/gorm"
)

// SchoolService owns the entity-store operations for schools, their admin
// sets, events, and membership reads. Admin-set replacement is atomic: a
// single Update call fully applies or fully fails.
type SchoolService struct {
	DB *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{DB: db}
}

type CreateSchoolInput struct {
	Name        string
	Description string
	Image       string
}

// CreateSchool creates a school with the creator as its sole admin, in one
// transaction so the at-least-one-admin invariant holds from the first
// committed state.
func (s *SchoolService) CreateSchool(ctx context.Context, input CreateSchoolInput, creatorID uuid.UUID) (*models.School, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	school := models.School{
		Name:        name,
		CreatedByID: creatorID,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		school.Description = &desc
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		school.Image = &image
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&school).Error; err != nil {
			return err
		}
		admin := models.SchoolAdmin{
			SchoolID: school.ID,
			UserID:   creatorID,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		return nil, err
	}

	school.AdminIDs = []string{creatorID.String()}
	return &school, nil
}

type UpdateSchoolInput struct {
	Name        *string
	Description *string
	Image       *string
	AdminIDs    []string
}

// UpdateSchool applies a profile patch and/or replaces the admin set.
// The admin list is replaced with exactly what the caller sent (after
// dedup and validation); callers are expected to send the current list
// plus their additions so concurrent co-admin additions don't clobber
// each other.
func (s *SchoolService) UpdateSchool(ctx context.Context, schoolID uuid.UUID, input UpdateSchoolInput) (*models.School, error) {
	var adminIDs []uuid.UUID
	if input.AdminIDs != nil {
		deduped := models.Dedupe(input.AdminIDs)
		if len(deduped) == 0 {
			return nil, ErrNoAdmins
		}
		adminIDs = make([]uuid.UUID, 0, len(deduped))
		for _, raw := range deduped {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, ErrUnknownAdmin
			}
			adminIDs = append(adminIDs, id)
		}
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			updates["description"] = nil
		} else {
			updates["description"] = trimmed
		}
	}
	if input.Image != nil {
		trimmed := strings.TrimSpace(*input.Image)
		if trimmed == "" {
			updates["image"] = nil
		} else {
			updates["image"] = trimmed
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := tx.First(&school, "id = ?", schoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.School{}).Where("id = ?", schoolID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if adminIDs != nil {
			var userCount int64
			if err := tx.Model(&models.User{}).Where("id IN ?", adminIDs).Count(&userCount).Error; err != nil {
				return err
			}
			if userCount != int64(len(adminIDs)) {
				return ErrUnknownAdmin
			}

			if err := tx.Where("school_id = ? AND user_id NOT IN ?", schoolID, adminIDs).
				Delete(&models.SchoolAdmin{}).Error; err != nil {
				return err
			}

			var existing []models.SchoolAdmin
			if err := tx.Where("school_id = ?", schoolID).Find(&existing).Error; err != nil {
				return err
			}
			present := make(map[uuid.UUID]struct{}, len(existing))
			for _, row := range existing {
				present[row.UserID] = struct{}{}
			}
			for _, userID := range adminIDs {
				if _, ok := present[userID]; ok {
					continue
				}
				row := models.SchoolAdmin{SchoolID: schoolID, UserID: userID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetSchool(ctx, schoolID)
}

// GetSchool loads a school with its admin set projected into AdminIDs.
func (s *SchoolService) GetSchool(ctx context.Context, schoolID uuid.UUID) (*models.School, error) {
	var school models.School
	err := s.DB.WithContext(ctx).Preload("Admins").First(&school, "id = ?", schoolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	school.FillAdminIDs()
	return &school, nil
}

func (s *SchoolService) ListSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	err := s.DB.WithContext(ctx).Preload("Admins").Order("created_at ASC").Find(&schools).Error
	if err != nil {
		return nil, err
	}
	for i := range schools {
		schools[i].FillAdminIDs()
	}
	return schools, nil
}

// Graph recomputes the school projection with resolved events and admins.
func (s *SchoolService) Graph(ctx context.Context, schoolID uuid.UUID) (*models.SchoolGraph, error) {
	school, err := s.GetSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	events, err := s.ListEventsBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	adminIDs := make([]uuid.UUID, 0, len(school.Admins))
	for _, admin := range school.Admins {
		adminIDs = append(adminIDs, admin.UserID)
	}
	var admins []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", adminIDs).Find(&admins).Error; err != nil {
		return nil, err
	}

	return &models.SchoolGraph{
		School:    *school,
		EventsArr: events,
		AdminsArr: admins,
	}, nil
}

type CreateEventInput struct {
	Name        string
	Description string
	Labels      []string
	Image       string
}

func (s *SchoolService) CreateEvent(ctx context.Context, schoolID uuid.UUID, input CreateEventInput, creatorID uuid.UUID) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var school models.School
	if err := s.DB.WithContext(ctx).First(&school, "id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	event := models.Event{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Labels:      models.Dedupe(input.Labels),
		SchoolID:    schoolID,
		CreatedByID: creatorID,
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		event.Image = &image
	}

	if err := s.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

type UpdateEventInput struct {
	Name        *string
	Description *string
	Labels      []string
	Image       *string
}

func (s *SchoolService) UpdateEvent(ctx context.Context, eventID uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Labels != nil {
		updates["labels"] = models.Dedupe(input.Labels)
	}
	if input.Image != nil {
		trimmed := strings.TrimSpace(*input.Image)
		if trimmed == "" {
			updates["image"] = nil
		} else {
			updates["image"] = trimmed
		}
	}

	if len(updates) > 0 {
		result := s.DB.WithContext(ctx).Model(&models.Event{}).Where("id = ?", eventID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var event models.Event
	if err := s.DB.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *SchoolService) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	result := s.DB.WithContext(ctx).Delete(&models.Event{}, "id = ?", eventID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetEvent loads a single event; used by handlers to scope admin checks to
// the owning school.
func (s *SchoolService) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.DB.WithContext(ctx).First(&event, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *SchoolService) ListEventsBySchool(ctx context.Context, schoolID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := s.DB.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListUsersBySchool returns the members of a school, optionally filtering
// out users already in its admin set.
func (s *SchoolService) ListUsersBySchool(ctx context.Context, schoolID uuid.UUID, excludeAdmins bool) ([]models.User, error) {
	query := s.DB.WithContext(ctx).Where("school_id = ?", schoolID)
	if excludeAdmins {
		query = query.Where(
			"id NOT IN (?)",
			s.DB.Model(&models.SchoolAdmin{}).Select("user_id").Where("school_id = ?", schoolID),
		)
	}

	var users []models.User
	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
