package models

import "github.com/google/uuid"

const (
	GradeUnset = 0
	GradeMin   = 9
	GradeMax   = 12
)

// ValidGrade reports whether g is a selectable grade. GradeUnset is not
// valid for onboarding submission.
func ValidGrade(g int) bool {
	return g >= GradeMin && g <= GradeMax
}

// User is a member record. It exists only once onboarding has completed;
// a signed-in identity without a User row is still in the new-account flow.
type User struct {
	BaseModel
	Email           string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	Image           string     `json:"image" gorm:"type:text"`
	SchoolID        *uuid.UUID `json:"school,omitempty" gorm:"type:uuid;index"`
	Grade           int        `json:"grade" gorm:"not null;default:0"`
	Labels          StringList `json:"labels" gorm:"serializer:json"`
	PreviousEvents  StringList `json:"previousEvents" gorm:"serializer:json"`
	PreferredEvents StringList `json:"preferredEvents" gorm:"serializer:json"`
	NotWantedEvents StringList `json:"notWantedEvents" gorm:"serializer:json"`

	School *School `json:"-" gorm:"foreignKey:SchoolID"`
}
