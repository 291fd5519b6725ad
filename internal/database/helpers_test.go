package database_test

import (
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/fitplate/backend/internal/models"
)

func testEmbedding() pgvector.Vector {
	vec := make([]float32, models.EmbeddingDimensions)
	vec[0] = 1
	return pgvector.NewVector(vec)
}
