package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User mirrors an account of the identity provider. The ID is the provider's
// subject claim; Fitplate never stores credentials.
type User struct {
	ID         uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	Email      string         `gorm:"size:255;index" json:"email"`
	LastSeenAt time.Time      `json:"last_seen_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserProfile holds the fitness details used to personalise generated plans.
type UserProfile struct {
	ID                 uuid.UUID                   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID             uuid.UUID                   `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DisplayName        string                      `gorm:"size:100" json:"display_name"`
	HeightCm           *float64                    `json:"height_cm,omitempty"`
	WeightKg           *float64                    `json:"weight_kg,omitempty"`
	BirthYear          *int                        `json:"birth_year,omitempty"`
	Goal               string                      `gorm:"size:50;default:'general_fitness'" json:"goal"`
	ExperienceLevel    string                      `gorm:"size:50;default:'beginner'" json:"experience_level"`
	DailyCalorieTarget *int                        `json:"daily_calorie_target,omitempty"`
	DietaryPreferences datatypes.JSONSlice[string] `json:"dietary_preferences"`
	Allergies          datatypes.JSONSlice[string] `json:"allergies"`
	Equipment          datatypes.JSONSlice[string] `json:"equipment"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	DeletedAt          gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
