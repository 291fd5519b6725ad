package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []Exercise {
	return []Exercise{
		{ID: "bench", Name: "barbell bench press", TargetMuscles: []string{"pectorals"}, BodyParts: []string{"chest"}, Equipments: []string{"barbell"}},
		{ID: "db-press", Name: "dumbbell bench press", TargetMuscles: []string{"Pectorals"}, BodyParts: []string{"Chest"}, Equipments: []string{"dumbbell"}},
		{ID: "pushup", Name: "push-up", TargetMuscles: []string{"pectorals", "triceps"}, BodyParts: []string{"chest"}, Equipments: []string{"body weight"}},
		{ID: "fly", Name: "cable fly", TargetMuscles: []string{"pectorals"}, BodyParts: []string{"chest"}, Equipments: []string{"cable"}},
		{ID: "dip", Name: "chest dip", TargetMuscles: []string{"triceps"}, BodyParts: []string{"upper arms"}, Equipments: []string{"body weight"}},
		{ID: "squat", Name: "barbell squat", TargetMuscles: []string{"quads"}, BodyParts: []string{"upper legs"}, Equipments: []string{"barbell"}},
		{ID: "incline", Name: "incline barbell press", TargetMuscles: []string{"pectorals"}, BodyParts: []string{"chest"}, Equipments: []string{"barbell"}},
	}
}

func TestFindAlternatives_EmptyInputs(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		got := FindAlternatives(nil, Query{TargetMuscles: []string{"pectorals"}})
		assert.Empty(t, got)
	})

	t.Run("all-empty query", func(t *testing.T) {
		got := FindAlternatives(testPool(), Query{})
		assert.Empty(t, got)
	})
}

func TestFindAlternatives_BodyPartOnlyScore(t *testing.T) {
	pool := []Exercise{{ID: "x", BodyParts: []string{"chest"}}}

	got := FindAlternatives(pool, Query{BodyParts: []string{"chest"}})
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].Score)
}

func TestFindAlternatives_MuscleOnlyScore(t *testing.T) {
	pool := []Exercise{{ID: "x", TargetMuscles: []string{"chest"}}}

	got := FindAlternatives(pool, Query{TargetMuscles: []string{"chest"}})
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Score)
}

func TestFindAlternatives_FullCoverageScoresHundred(t *testing.T) {
	got := FindAlternatives(testPool(), Query{
		TargetMuscles: []string{"pectorals"},
		BodyParts:     []string{"chest"},
		Equipments:    []string{"barbell"},
		ExcludeID:     "bench",
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "incline", got[0].Exercise.ID)
	assert.Equal(t, 100.0, got[0].Score)
}

func TestFindAlternatives_CaseInsensitive(t *testing.T) {
	got := FindAlternatives(testPool(), Query{
		TargetMuscles: []string{"PECTORALS"},
		BodyParts:     []string{"CHEST"},
		Equipments:    []string{"Dumbbell"},
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "db-press", got[0].Exercise.ID)
	assert.Equal(t, 100.0, got[0].Score)
}

func TestFindAlternatives_ExcludesTarget(t *testing.T) {
	got := FindAlternatives(testPool(), Query{
		TargetMuscles: []string{"pectorals"},
		BodyParts:     []string{"chest"},
		ExcludeID:     "bench",
		Limit:         100,
	})

	for _, s := range got {
		assert.NotEqual(t, "bench", s.Exercise.ID)
	}
}

func TestFindAlternatives_ThresholdIsExclusive(t *testing.T) {
	pool := []Exercise{
		{ID: "equipment-only", Equipments: []string{"barbell"}},
		{ID: "half-muscle", TargetMuscles: []string{"pectorals"}},
	}

	// equipment-only scores exactly 20 and must be dropped
	got := FindAlternatives(pool, Query{
		TargetMuscles: []string{"pectorals", "triceps"},
		Equipments:    []string{"barbell"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "half-muscle", got[0].Exercise.ID)
	assert.Equal(t, 25.0, got[0].Score)
}

func TestFindAlternatives_OrderingAndLimit(t *testing.T) {
	q := Query{
		TargetMuscles: []string{"pectorals", "triceps"},
		BodyParts:     []string{"chest"},
		Equipments:    []string{"barbell"},
		Limit:         3,
	}

	got := FindAlternatives(testPool(), q)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	for _, s := range got {
		assert.Greater(t, s.Score, DefaultWeights.Threshold)
		assert.LessOrEqual(t, s.Score, 100.0)
	}
}

func TestFindAlternatives_DefaultLimit(t *testing.T) {
	pool := make([]Exercise, 0, 10)
	for i := 0; i < 10; i++ {
		pool = append(pool, Exercise{ID: string(rune('a' + i)), BodyParts: []string{"back"}})
	}

	got := FindAlternatives(pool, Query{BodyParts: []string{"back"}})
	assert.Len(t, got, DefaultLimit)
}

func TestFindAlternatives_StableTies(t *testing.T) {
	// every chest exercise scores 80 here, so pool order decides
	got := FindAlternatives(testPool(), Query{
		TargetMuscles: []string{"pectorals"},
		BodyParts:     []string{"chest"},
		Limit:         10,
	})

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.Exercise.ID)
	}
	assert.Equal(t, []string{"bench", "db-press", "pushup", "fly", "incline"}, ids)
}

func TestScorer_CustomWeights(t *testing.T) {
	scorer := NewScorer(Weights{Muscle: 10, BodyPart: 10, Equipment: 80, Threshold: 50})

	got := scorer.FindAlternatives(testPool(), Query{
		TargetMuscles: []string{"quads"},
		Equipments:    []string{"barbell"},
		Limit:         10,
	})

	require.Len(t, got, 3)
	assert.Equal(t, "squat", got[0].Exercise.ID)
	assert.Equal(t, 90.0, got[0].Score)
}
