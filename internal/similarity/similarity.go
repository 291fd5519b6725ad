// Package similarity ranks exercises against a target by weighted overlap of
// their muscle, body part and equipment labels.
package similarity

import (
	"sort"

	"golang.org/x/text/cases"
)

// DefaultLimit is the number of alternatives returned when a query does not set one.
const DefaultLimit = 5

// Weights controls how much each label dimension contributes to a score and
// the minimum score a candidate must exceed to be returned.
type Weights struct {
	Muscle    float64 `json:"muscle"`
	BodyPart  float64 `json:"body_part"`
	Equipment float64 `json:"equipment"`
	Threshold float64 `json:"threshold"`
}

// DefaultWeights puts muscles first, body parts second and equipment last.
// A candidate must score above 20 to count as an alternative.
var DefaultWeights = Weights{
	Muscle:    50,
	BodyPart:  30,
	Equipment: 20,
	Threshold: 20,
}

// Exercise is the subset of a catalog exercise the scorer looks at.
type Exercise struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	TargetMuscles []string `json:"target_muscles"`
	BodyParts     []string `json:"body_parts"`
	Equipments    []string `json:"equipments"`
}

// Query describes the attributes alternatives should share.
type Query struct {
	TargetMuscles []string `json:"target_muscles"`
	BodyParts     []string `json:"body_parts"`
	Equipments    []string `json:"equipments"`
	ExcludeID     string   `json:"exclude_id,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// Scored pairs a candidate with its score in [0, 100].
type Scored struct {
	Exercise Exercise `json:"exercise"`
	Score    float64  `json:"score"`
}

// Scorer ranks candidate pools with a fixed set of weights.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer using the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// FindAlternatives ranks pool against q using DefaultWeights.
func FindAlternatives(pool []Exercise, q Query) []Scored {
	return NewScorer(DefaultWeights).FindAlternatives(pool, q)
}

// FindAlternatives returns at most q.Limit candidates from pool whose score
// exceeds the threshold, best first. Candidates with equal scores keep their
// pool order. The exercise named by q.ExcludeID is never returned.
func (s *Scorer) FindAlternatives(pool []Exercise, q Query) []Scored {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	fold := cases.Fold()
	muscles := foldLabels(fold, q.TargetMuscles)
	bodyParts := foldLabels(fold, q.BodyParts)
	equipments := foldLabels(fold, q.Equipments)

	results := make([]Scored, 0, len(pool))
	for _, candidate := range pool {
		if q.ExcludeID != "" && candidate.ID == q.ExcludeID {
			continue
		}

		score := overlap(muscles, foldSet(fold, candidate.TargetMuscles))*s.weights.Muscle +
			overlap(bodyParts, foldSet(fold, candidate.BodyParts))*s.weights.BodyPart +
			overlap(equipments, foldSet(fold, candidate.Equipments))*s.weights.Equipment

		if score <= s.weights.Threshold {
			continue
		}
		results = append(results, Scored{Exercise: candidate, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// overlap is the fraction of query labels present in the candidate's labels.
// An empty query dimension contributes nothing.
func overlap(query []string, candidate map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for _, label := range query {
		if _, ok := candidate[label]; ok {
			matched++
		}
	}
	return float64(matched) / float64(max(1, len(query)))
}

func foldLabels(fold cases.Caser, labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		out = append(out, fold.String(label))
	}
	return out
}

func foldSet(fold cases.Caser, labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[fold.String(label)] = struct{}{}
	}
	return set
}
