package nutrition

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
)

// DefaultBaseURL is the public USDA FoodData Central API.
const DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// searchDataTypes restricts searches to generic foods with lab-analysed nutrients.
const searchDataTypes = "Foundation,SR Legacy"

// FoodData Central nutrient IDs.
const (
	NutrientIDEnergy       = 1008 // kcal
	NutrientIDProtein      = 1003
	NutrientIDTotalFat     = 1004
	NutrientIDCarbohydrate = 1005
	NutrientIDFiber        = 1079
)

var (
	// ErrMissingAPIKey is returned when no FoodData Central key is configured.
	ErrMissingAPIKey = errors.New("FoodData Central API key is not configured")
	// ErrRequestFailed is the kind shared by transport failures and non-2xx replies.
	ErrRequestFailed = errors.New("FoodData Central request failed")
)

// RequestError is returned when FoodData Central replies with a non-2xx status.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("FoodData Central request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

// FoodNutrient is one nutrient entry of a search hit, per 100 g.
type FoodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// Food is a FoodData Central search hit.
type Food struct {
	FdcID         int            `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// Nutrient returns the per-100 g value of the nutrient with the given ID.
func (f Food) Nutrient(id int) (float64, bool) {
	for _, n := range f.FoodNutrients {
		if n.NutrientID == id {
			return n.Value, true
		}
	}
	return 0, false
}

// SearchResponse is the body of /foods/search.
type SearchResponse struct {
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Foods       []Food `json:"foods"`
}

// FoodSearcher looks up foods by free text.
type FoodSearcher interface {
	SearchFoods(ctx context.Context, query string, pageSize int) ([]Food, error)
}

// Client talks to the FoodData Central search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a FoodData Central client. An empty baseURL selects the
// public API. A missing key is reported on the first search, not here.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchFoods returns the first page of generic foods matching query.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) ([]Food, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("dataType", searchDataTypes)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("pageNumber", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[FDCClient] search for %q failed with status %d", query, resp.StatusCode)
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrRequestFailed, err)
	}

	return result.Foods, nil
}
