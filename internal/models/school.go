package models

import "github.com/google/uuid"

// School is an organizational tenant. The admin set lives in the
// school_admins join table; the unique composite index makes duplicate
// admins impossible by construction. Every school has at least one admin
// at all times (enforced by the schools service).
type School struct {
	BaseModel
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Image       *string   `json:"image,omitempty" gorm:"type:text"`
	CreatedByID uuid.UUID `json:"createdByID" gorm:"type:uuid;not null"`

	Admins []SchoolAdmin `json:"-" gorm:"foreignKey:SchoolID"`
	Events []Event       `json:"-" gorm:"foreignKey:SchoolID"`

	// AdminIDs is the wire representation of the admin set. Populated
	// from Admins on read, never stored.
	AdminIDs []string `json:"admin" gorm:"-"`
}

// FillAdminIDs projects the loaded membership rows into the wire shape.
func (s *School) FillAdminIDs() {
	s.AdminIDs = make([]string, 0, len(s.Admins))
	for _, admin := range s.Admins {
		s.AdminIDs = append(s.AdminIDs, admin.UserID.String())
	}
}

type SchoolAdmin struct {
	BaseModel
	SchoolID uuid.UUID `json:"schoolID" gorm:"type:uuid;not null;index;uniqueIndex:idx_school_admin"`
	UserID   uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_school_admin"`

	School School `json:"-" gorm:"foreignKey:SchoolID"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`
}

// SchoolGraph is the read-time projection of a school with its resolved
// event and admin lists. Recomputed on every read, never cached.
type SchoolGraph struct {
	School
	EventsArr []Event `json:"eventsArr"`
	AdminsArr []User  `json:"adminsArr"`
}
