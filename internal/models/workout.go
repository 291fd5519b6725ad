package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutSession groups the sets logged during one visit to the gym.
type WorkoutSession struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name        string         `gorm:"size:100" json:"name"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	PlanID      *uuid.UUID     `gorm:"type:varchar(36)" json:"plan_id,omitempty"`
	StartedAt   time.Time      `gorm:"not null;index" json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Sets        []WorkoutSet   `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"sets,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *WorkoutSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}

// WorkoutSet is one logged set of an exercise.
type WorkoutSet struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	SessionID       uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_workout_sets_number" json:"session_id"`
	UserID          uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ExerciseID      string    `gorm:"size:64;not null;index;uniqueIndex:idx_workout_sets_number" json:"exercise_id"`
	ExerciseName    string    `gorm:"size:255" json:"exercise_name"`
	SetNumber       int       `gorm:"not null;uniqueIndex:idx_workout_sets_number" json:"set_number"`
	Reps            int       `json:"reps"`
	WeightKg        float64   `json:"weight_kg"`
	RPE             *float64  `json:"rpe,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	PerformedAt     time.Time `gorm:"not null" json:"performed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *WorkoutSet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.PerformedAt.IsZero() {
		s.PerformedAt = time.Now()
	}
	return nil
}

// Volume is reps times load.
func (s WorkoutSet) Volume() float64 {
	return float64(s.Reps) * s.WeightKg
}
