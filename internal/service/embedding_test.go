package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/fitplate/backend/internal/models"
)

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestGenerateEmbedding(t *testing.T) {
	a := GenerateEmbedding("Barbell Bench Press").Slice()
	b := GenerateEmbedding("barbell bench-press").Slice()

	assert.Len(t, a, models.EmbeddingDimensions)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestGenerateEmbedding_RelatedTextsAreCloser(t *testing.T) {
	bench := GenerateEmbedding("barbell bench press chest").Slice()
	incline := GenerateEmbedding("incline barbell bench press chest").Slice()
	squat := GenerateEmbedding("goblet squat quads").Slice()

	assert.Less(t, distance(bench, incline), distance(bench, squat))
}

func TestGenerateEmbedding_Empty(t *testing.T) {
	vec := GenerateEmbedding("  ").Slice()
	assert.Len(t, vec, models.EmbeddingDimensions)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}
