package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/similarity"
)

const (
	exerciseCacheTTL = 6 * time.Hour

	// alternativePoolSize is how many catalog exercises are fetched per
	// muscle or body part when building a candidate pool.
	alternativePoolSize = 100

	catalogPageSize    = 100
	defaultSearchLimit = 20
)

// ExerciseAlternative is a catalog exercise together with its similarity score.
type ExerciseAlternative struct {
	exercisedb.Exercise
	Score float64 `json:"score"`
}

// ExerciseService serves catalog exercises through a Redis cache and the
// locally synced exercise table, and suggests alternatives.
type ExerciseService struct {
	catalog CatalogClient
	db      *gorm.DB
	redis   *redis.Client
	scorer  *similarity.Scorer
}

var _ IExerciseService = (*ExerciseService)(nil)

// NewExerciseService creates an ExerciseService. db and rdb may be nil, which
// disables the local table and the cache respectively.
func NewExerciseService(catalog CatalogClient, db *gorm.DB, rdb *redis.Client, weights similarity.Weights) *ExerciseService {
	return &ExerciseService{
		catalog: catalog,
		db:      db,
		redis:   rdb,
		scorer:  similarity.NewScorer(weights),
	}
}

// List returns one page of the catalog, falling back to the local table when
// the catalog is unreachable.
func (s *ExerciseService) List(ctx context.Context, offset, limit int) ([]exercisedb.Exercise, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	key := fmt.Sprintf("exercise:list:page:%d:%d", offset, limit)
	var cached []exercisedb.Exercise
	if cacheGet(ctx, s.redis, key, &cached) {
		return cached, nil
	}

	exercises, _, err := s.catalog.List(ctx, offset, limit)
	if err != nil {
		if s.db == nil {
			return nil, fmt.Errorf("failed to list exercises: %w", err)
		}
		log.Printf("[ExerciseService] Catalog list failed, using local table: %v", err)

		var rows []models.CachedExercise
		if dbErr := s.db.WithContext(ctx).Order("name").Offset(offset).Limit(limit).Find(&rows).Error; dbErr != nil {
			return nil, fmt.Errorf("failed to list exercises: %w", errors.Join(err, dbErr))
		}
		return fromCached(rows), nil
	}

	cacheSet(ctx, s.redis, key, exercises, exerciseCacheTTL)
	return exercises, nil
}

// Get returns one exercise by catalog ID.
func (s *ExerciseService) Get(ctx context.Context, id string) (*exercisedb.Exercise, error) {
	key := "exercise:" + id
	var cached exercisedb.Exercise
	if cacheGet(ctx, s.redis, key, &cached) {
		return &cached, nil
	}

	if s.db != nil {
		var row models.CachedExercise
		err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
		if err == nil {
			ex := toExercise(row)
			cacheSet(ctx, s.redis, key, ex, exerciseCacheTTL)
			return &ex, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ExerciseService] Local lookup of %s failed: %v", id, err)
		}
	}

	ex, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.redis, key, ex, exerciseCacheTTL)
	return ex, nil
}

// Search finds exercises by name. The synced table is searched first; the
// remote catalog is only asked when nothing matches locally.
func (s *ExerciseService) Search(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []exercisedb.Exercise{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if s.db != nil {
		local, err := s.searchLocal(ctx, query, limit)
		if err != nil {
			log.Printf("[ExerciseService] Local search failed: %v", err)
		} else if len(local) > 0 {
			return local, nil
		}
	}

	key := fmt.Sprintf("exercise:list:search:%s:%d", strings.ToLower(query), limit)
	var cached []exercisedb.Exercise
	if cacheGet(ctx, s.redis, key, &cached) {
		return cached, nil
	}

	exercises, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}

	cacheSet(ctx, s.redis, key, exercises, exerciseCacheTTL)
	return exercises, nil
}

func (s *ExerciseService) searchLocal(ctx context.Context, query string, limit int) ([]exercisedb.Exercise, error) {
	var rows []models.CachedExercise
	like := "%" + strings.ToLower(query) + "%"
	if err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", like).
		Order("name").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// Postgres can rank by embedding distance when no name contains the query.
	if len(rows) == 0 && s.db.Dialector.Name() == "postgres" {
		err := s.db.WithContext(ctx).
			Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{GenerateEmbedding(query)}},
			}).
			Limit(limit).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
	}

	return fromCached(rows), nil
}

// Alternatives suggests replacements for the exercise with the given ID.
// Candidates sharing a target muscle are scored first; if none pass the
// threshold the search broadens to the target's body parts alone.
func (s *ExerciseService) Alternatives(ctx context.Context, id string, limit int) ([]ExerciseAlternative, error) {
	if limit <= 0 {
		limit = similarity.DefaultLimit
	}

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pool, err := s.pool(ctx, "muscle", target.TargetMuscles, s.catalog.ByMuscle)
	if err != nil {
		return nil, err
	}
	alternatives := s.rank(pool, similarity.Query{
		TargetMuscles: target.TargetMuscles,
		BodyParts:     target.BodyParts,
		Equipments:    target.Equipments,
		ExcludeID:     target.ExerciseID,
		Limit:         limit,
	})
	if len(alternatives) > 0 {
		return alternatives, nil
	}

	log.Printf("[ExerciseService] No muscle alternatives for %s, broadening to body parts", id)
	pool, err = s.pool(ctx, "bodypart", target.BodyParts, s.catalog.ByBodyPart)
	if err != nil {
		return nil, err
	}
	return s.rank(pool, similarity.Query{
		BodyParts: target.BodyParts,
		ExcludeID: target.ExerciseID,
		Limit:     limit,
	}), nil
}

// pool gathers the exercises listed under each value, deduplicated by ID in
// first-seen order.
func (s *ExerciseService) pool(ctx context.Context, kind string, values []string,
	fetch func(ctx context.Context, value string, limit int) ([]exercisedb.Exercise, error)) ([]exercisedb.Exercise, error) {
	seen := make(map[string]bool)
	var out []exercisedb.Exercise

	for _, value := range values {
		key := fmt.Sprintf("exercise:list:%s:%s", kind, strings.ToLower(value))

		var exercises []exercisedb.Exercise
		if !cacheGet(ctx, s.redis, key, &exercises) {
			fetched, err := fetch(ctx, value, alternativePoolSize)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch %s candidates for %q: %w", kind, value, err)
			}
			exercises = fetched
			cacheSet(ctx, s.redis, key, exercises, exerciseCacheTTL)
		}

		for _, ex := range exercises {
			if seen[ex.ExerciseID] {
				continue
			}
			seen[ex.ExerciseID] = true
			out = append(out, ex)
		}
	}

	return out, nil
}

func (s *ExerciseService) rank(pool []exercisedb.Exercise, q similarity.Query) []ExerciseAlternative {
	byID := make(map[string]exercisedb.Exercise, len(pool))
	candidates := make([]similarity.Exercise, 0, len(pool))
	for _, ex := range pool {
		byID[ex.ExerciseID] = ex
		candidates = append(candidates, ex.Scoring())
	}

	scored := s.scorer.FindAlternatives(candidates, q)
	out := make([]ExerciseAlternative, 0, len(scored))
	for _, sc := range scored {
		out = append(out, ExerciseAlternative{Exercise: byID[sc.Exercise.ID], Score: sc.Score})
	}
	return out
}

// SyncCatalog copies the whole catalog into the local exercise table and
// returns the number of exercises written.
func (s *ExerciseService) SyncCatalog(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, errors.New("exercise sync requires a database")
	}

	start := time.Now()
	total := 0
	for offset := 0; ; offset += catalogPageSize {
		page, meta, err := s.catalog.List(ctx, offset, catalogPageSize)
		if err != nil {
			return total, fmt.Errorf("failed to fetch catalog page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		rows := make([]models.CachedExercise, 0, len(page))
		for _, ex := range page {
			rows = append(rows, toCached(ex, start))
		}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
			return total, fmt.Errorf("failed to store catalog page at offset %d: %w", offset, err)
		}
		total += len(rows)

		if len(page) < catalogPageSize || (meta.TotalExercises > 0 && total >= meta.TotalExercises) {
			break
		}
	}

	log.Printf("[ExerciseService] Synced %d exercises in %s", total, time.Since(start).Round(time.Millisecond))
	return total, nil
}

func toCached(ex exercisedb.Exercise, syncedAt time.Time) models.CachedExercise {
	return models.CachedExercise{
		ID:               ex.ExerciseID,
		Name:             ex.Name,
		GifURL:           ex.GifURL,
		TargetMuscles:    ex.TargetMuscles,
		BodyParts:        ex.BodyParts,
		Equipments:       ex.Equipments,
		SecondaryMuscles: ex.SecondaryMuscles,
		Instructions:     ex.Instructions,
		Embedding:        GenerateEmbedding(exerciseEmbeddingText(ex)),
		SyncedAt:         syncedAt,
	}
}

func toExercise(row models.CachedExercise) exercisedb.Exercise {
	return exercisedb.Exercise{
		ExerciseID:       row.ID,
		Name:             row.Name,
		GifURL:           row.GifURL,
		TargetMuscles:    row.TargetMuscles,
		BodyParts:        row.BodyParts,
		Equipments:       row.Equipments,
		SecondaryMuscles: row.SecondaryMuscles,
		Instructions:     row.Instructions,
	}
}

func fromCached(rows []models.CachedExercise) []exercisedb.Exercise {
	out := make([]exercisedb.Exercise, 0, len(rows))
	for _, row := range rows {
		out = append(out, toExercise(row))
	}
	return out
}
