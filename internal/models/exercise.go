package models

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// EmbeddingDimensions is the size of CachedExercise.Embedding.
const EmbeddingDimensions = 64

// CachedExercise is a local copy of a catalog exercise, refreshed by the
// catalog sync job. ID is the catalog's identifier.
type CachedExercise struct {
	ID               string                      `gorm:"size:64;primarykey" json:"id"`
	Name             string                      `gorm:"size:255;not null;index" json:"name"`
	GifURL           string                      `gorm:"size:512" json:"gif_url"`
	TargetMuscles    datatypes.JSONSlice[string] `json:"target_muscles"`
	BodyParts        datatypes.JSONSlice[string] `json:"body_parts"`
	Equipments       datatypes.JSONSlice[string] `json:"equipments"`
	SecondaryMuscles datatypes.JSONSlice[string] `json:"secondary_muscles"`
	Instructions     datatypes.JSONSlice[string] `json:"instructions"`
	Embedding        pgvector.Vector             `gorm:"type:vector(64)" json:"-"`
	SyncedAt         time.Time                   `gorm:"index" json:"synced_at"`
}
