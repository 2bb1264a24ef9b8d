package models

// Credential is a local sign-in identity. In production sign-in is
// delegated to the external OAuth provider; local credentials exist for
// development and tests. A Credential is not a User: the member record is
// created separately by the onboarding flow.
type Credential struct {
	BaseModel
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
	Name         string `json:"name" gorm:"type:varchar(255);not null"`
	Image        string `json:"image" gorm:"type:text"`
}
