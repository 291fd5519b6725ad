package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/models"
)

// GenerateEmbedding returns a deterministic bag-of-words embedding for text.
// Each lowercased token is hashed into one of the vector's buckets and the
// result is L2-normalised, so texts sharing words end up close together.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, models.EmbeddingDimensions)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := sum % uint32(len(vec))
		// The top bit picks the sign so unrelated tokens tend to cancel out.
		if sum&(1<<31) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return pgvector.NewVector(vec)
}

// exerciseEmbeddingText is the text an exercise is embedded from.
func exerciseEmbeddingText(ex exercisedb.Exercise) string {
	parts := []string{ex.Name}
	parts = append(parts, ex.TargetMuscles...)
	parts = append(parts, ex.BodyParts...)
	parts = append(parts, ex.Equipments...)
	return strings.Join(parts, " ")
}
