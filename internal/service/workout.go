package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/types"
)

var (
	ErrSessionNotFound  = errors.New("workout session not found")
	ErrSetNotFound      = errors.New("workout set not found")
	ErrSessionCompleted = errors.New("workout session is already completed")
	ErrInvalidPlanID    = errors.New("invalid plan id")
)

const maxSessionPage = 100

// WorkoutStats summarises a user's training.
type WorkoutStats struct {
	TotalSessions     int64      `json:"total_sessions"`
	CompletedSessions int64      `json:"completed_sessions"`
	RecentSessions    int64      `json:"recent_sessions"`
	TotalSets         int64      `json:"total_sets"`
	TotalVolumeKg     float64    `json:"total_volume_kg"`
	LastWorkoutAt     *time.Time `json:"last_workout_at,omitempty"`
}

// WorkoutService logs workout sessions and sets
type WorkoutService struct {
	db *gorm.DB
}

var _ IWorkoutService = (*WorkoutService)(nil)

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

func (s *WorkoutService) StartSession(ctx context.Context, userID uuid.UUID, req *types.StartSessionRequest) (*models.WorkoutSession, error) {
	session := &models.WorkoutSession{
		UserID: userID,
		Name:   req.Name,
		Notes:  req.Notes,
	}
	if session.Name == "" {
		session.Name = "Workout"
	}
	if req.StartedAt != nil {
		session.StartedAt = *req.StartedAt
	}
	if req.PlanID != "" {
		planID, err := uuid.Parse(req.PlanID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlanID, err)
		}
		session.PlanID = &planID
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions, newest first, without their sets.
func (s *WorkoutService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutSession, error) {
	if limit <= 0 || limit > maxSessionPage {
		limit = maxSessionPage
	}

	var sessions []models.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns a session with its sets in the order they were performed.
func (s *WorkoutService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.WithContext(ctx).
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("performed_at ASC, set_number ASC")
		}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// LogSet records a set. Set numbers count per exercise within the session and
// are never reused after a delete.
func (s *WorkoutService) LogSet(ctx context.Context, userID, sessionID uuid.UUID, req *types.LogSetRequest) (*models.WorkoutSet, error) {
	var set *models.WorkoutSet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.WorkoutSession
		if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.CompletedAt != nil {
			return ErrSessionCompleted
		}

		var last int
		if err := tx.Model(&models.WorkoutSet{}).
			Select("COALESCE(MAX(set_number), 0)").
			Where("session_id = ? AND exercise_id = ?", sessionID, req.ExerciseID).
			Scan(&last).Error; err != nil {
			return err
		}

		set = &models.WorkoutSet{
			SessionID:       sessionID,
			UserID:          userID,
			ExerciseID:      req.ExerciseID,
			ExerciseName:    req.ExerciseName,
			SetNumber:       last + 1,
			Reps:            req.Reps,
			WeightKg:        req.WeightKg,
			RPE:             req.RPE,
			DurationSeconds: req.DurationSeconds,
		}
		if req.PerformedAt != nil {
			set.PerformedAt = *req.PerformedAt
		}
		return tx.Create(set).Error
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to log set: %w", err)
	}
	return set, nil
}

func (s *WorkoutService) DeleteSet(ctx context.Context, userID, sessionID, setID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ? AND user_id = ?", setID, sessionID, userID).
		Delete(&models.WorkoutSet{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete set: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSetNotFound
	}
	return nil
}

// CompleteSession stamps the session as finished. Completing twice is an error.
func (s *WorkoutService) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CompletedAt != nil {
		return nil, ErrSessionCompleted
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(session).Update("completed_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.CompletedAt = &now
	return session, nil
}

// Stats aggregates the user's sessions and sets. RecentSessions counts
// sessions started at or after since.
func (s *WorkoutService) Stats(ctx context.Context, userID uuid.UUID, since time.Time) (*WorkoutStats, error) {
	db := s.db.WithContext(ctx)
	stats := &WorkoutStats{}

	if err := db.Model(&models.WorkoutSession{}).Where("user_id = ?", userID).Count(&stats.TotalSessions).Error; err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	if err := db.Model(&models.WorkoutSession{}).Where("user_id = ? AND completed_at IS NOT NULL", userID).Count(&stats.CompletedSessions).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed sessions: %w", err)
	}
	if err := db.Model(&models.WorkoutSession{}).Where("user_id = ? AND started_at >= ?", userID, since).Count(&stats.RecentSessions).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent sessions: %w", err)
	}
	if err := db.Model(&models.WorkoutSet{}).Where("user_id = ?", userID).Count(&stats.TotalSets).Error; err != nil {
		return nil, fmt.Errorf("failed to count sets: %w", err)
	}
	if err := db.Model(&models.WorkoutSet{}).
		Select("COALESCE(SUM(reps * weight_kg), 0)").
		Where("user_id = ?", userID).
		Scan(&stats.TotalVolumeKg).Error; err != nil {
		return nil, fmt.Errorf("failed to sum volume: %w", err)
	}

	var last models.WorkoutSession
	err := db.Where("user_id = ?", userID).Order("started_at DESC").First(&last).Error
	if err == nil {
		stats.LastWorkoutAt = &last.StartedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load last session: %w", err)
	}

	return stats, nil
}
