package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/models"
	"gorm.io/gorm"
)

// AccessService derives admin authority from the school_admins table.
// Every mutating endpoint goes through it; client state is never trusted.
type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// SchoolsByAdmin returns every school the user administers, oldest first.
func (a *AccessService) SchoolsByAdmin(ctx context.Context, userID uuid.UUID) ([]models.School, error) {
	var schools []models.School
	err := a.DB.WithContext(ctx).
		Model(&models.School{}).
		Preload("Admins").
		Joins("JOIN school_admins ON school_admins.school_id = schools.id").
		Where("school_admins.user_id = ?", userID).
		Order("schools.created_at ASC").
		Find(&schools).Error
	if err != nil {
		return nil, err
	}
	for i := range schools {
		schools[i].FillAdminIDs()
	}
	return schools, nil
}

// AuthorizeDashboard resolves the school whose dashboard the user may see.
// Zero admin memberships yield ErrDenied. A user administering several
// schools gets the oldest one; SchoolsByAdmin exposes the full list so a
// client can offer explicit selection instead.
func (a *AccessService) AuthorizeDashboard(ctx context.Context, userID uuid.UUID) (*models.School, error) {
	schools, err := a.SchoolsByAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(schools) == 0 {
		return nil, ErrDenied
	}
	return &schools[0], nil
}

// AuthorizeSchool checks that the user administers the given school.
func (a *AccessService) AuthorizeSchool(ctx context.Context, userID, schoolID uuid.UUID) error {
	var membership models.SchoolAdmin
	err := a.DB.WithContext(ctx).
		First(&membership, "school_id = ? AND user_id = ?", schoolID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDenied
	}
	return err
}
