package models

import "github.com/google/uuid"

// Event is a competition category hosted by a school.
type Event struct {
	BaseModel
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Labels      StringList `json:"labels" gorm:"serializer:json"`
	Image       *string    `json:"image,omitempty" gorm:"type:text"`
	SchoolID    uuid.UUID  `json:"schoolID" gorm:"type:uuid;not null;index"`
	CreatedByID uuid.UUID  `json:"createdByID" gorm:"type:uuid;not null"`

	School School `json:"-" gorm:"foreignKey:SchoolID"`
}

// EventCodes is the vocabulary of competitive-event category codes used by
// member preference lists (previousEvents and friends).
var EventCodes = map[string]string{
	"behavHealth":     "Behavioral Health",
	"dentTerm":        "Dental Terminology",
	"humanGrDev":      "Human Growth and Development",
	"medLawEth":       "Medical Law and Ethics",
	"medMath":         "Medical Math",
	"medSpell":        "Medical Spelling",
	"medTerm":         "Medical Terminology",
	"nutr":            "Nutrition",
	"pathophy":        "Pathophysiology",
	"researPersSpeak": "Researched Persuasive Speaking",
	"CERT":            "CERT Skills",
	"CPR":             "CPR / First Aid",
	"EMT":             "Emergency Medical Technician",
	"epidemi":         "Epidemiology",
	"pubHealth":       "Public Health",
	"biomedLabSci":    "Biomedical Laboratory Science",
	"clinNurs":        "Clinical Nursing",
	"clinSpec":        "Clinical Specialty",
	"dentSci":         "Dental Science",
	"pharmSci":        "Pharmacy Science",
	"physThera":       "Physical Therapy",
	"sportsMed":       "Sports Medicine",
	"vetSci":          "Veterinary Science",
	"biomedDebate":    "Biomedical Debate",
	"commAware":       "Community Awareness",
	"creativeProbSol": "Creative Problem Solving",
	"forenSci":        "Forensic Science",
	"HOSABowl":        "HOSA Bowl",
	"medInno":         "Medical Innovation",
}

func KnownEventCode(code string) bool {
	_, ok := EventCodes[code]
	return ok
}
