// Package exercisedb is a client for an ExerciseDB-style exercise catalog.
package exercisedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/fitplate/backend/internal/similarity"
)

// ErrNotFound is returned when the catalog has no exercise with the requested ID.
var ErrNotFound = errors.New("exercise not found")

// Exercise is a catalog exercise.
type Exercise struct {
	ExerciseID       string   `json:"exerciseId"`
	Name             string   `json:"name"`
	GifURL           string   `json:"gifUrl"`
	TargetMuscles    []string `json:"targetMuscles"`
	BodyParts        []string `json:"bodyParts"`
	Equipments       []string `json:"equipments"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
}

// Scoring returns the attributes the similarity scorer compares.
func (e Exercise) Scoring() similarity.Exercise {
	return similarity.Exercise{
		ID:            e.ExerciseID,
		Name:          e.Name,
		TargetMuscles: e.TargetMuscles,
		BodyParts:     e.BodyParts,
		Equipments:    e.Equipments,
	}
}

// Metadata describes a page of results.
type Metadata struct {
	TotalPages     int    `json:"totalPages"`
	TotalExercises int    `json:"totalExercises"`
	CurrentPage    int    `json:"currentPage"`
	PreviousPage   string `json:"previousPage"`
	NextPage       string `json:"nextPage"`
}

type listEnvelope struct {
	Success  bool       `json:"success"`
	Metadata Metadata   `json:"metadata"`
	Data     []Exercise `json:"data"`
}

type itemEnvelope struct {
	Success bool     `json:"success"`
	Data    Exercise `json:"data"`
}

// Client fetches exercises from the catalog API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a catalog client. apiKey may be empty for public deployments.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// List returns one page of the catalog.
func (c *Client) List(ctx context.Context, offset, limit int) ([]Exercise, Metadata, error) {
	var env listEnvelope
	if err := c.get(ctx, "/exercises", pageParams(offset, limit), &env); err != nil {
		return nil, Metadata{}, err
	}
	return env.Data, env.Metadata, nil
}

// Get returns a single exercise.
func (c *Client) Get(ctx context.Context, id string) (*Exercise, error) {
	var env itemEnvelope
	if err := c.get(ctx, "/exercises/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	if env.Data.ExerciseID == "" {
		return nil, ErrNotFound
	}
	return &env.Data, nil
}

// ByMuscle returns exercises that target muscle.
func (c *Client) ByMuscle(ctx context.Context, muscle string, limit int) ([]Exercise, error) {
	var env listEnvelope
	if err := c.get(ctx, "/muscles/"+url.PathEscape(muscle)+"/exercises", pageParams(0, limit), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ByBodyPart returns exercises that train bodyPart.
func (c *Client) ByBodyPart(ctx context.Context, bodyPart string, limit int) ([]Exercise, error) {
	var env listEnvelope
	if err := c.get(ctx, "/bodyparts/"+url.PathEscape(bodyPart)+"/exercises", pageParams(0, limit), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Search runs a fuzzy name search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Exercise, error) {
	params := pageParams(0, limit)
	params.Set("q", query)

	var env listEnvelope
	if err := c.get(ctx, "/exercises/search", params, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[ExerciseDB] API request to %s failed with status %d", path, resp.StatusCode)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func pageParams(offset, limit int) url.Values {
	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}
