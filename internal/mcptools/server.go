package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
	"github.com/pageza/fitplate/backend/internal/service"
)

// Info identifies this tool server to MCP clients.
var Info = protocol.Implementation{
	Name:    "fitplate-tools",
	Version: "1.0.0",
}

var errInvalidParams = errors.New("invalid parameters")

// Config holds the listener settings and the bcrypt hash of the API key.
// An empty APIKeyHash leaves the endpoint open.
type Config struct {
	Host       string
	Port       string
	APIKeyHash string
}

// Server exposes nutrition validation and exercise alternatives as MCP tools
// over plain HTTP.
type Server struct {
	nutrition  service.INutritionService
	exercises  service.IExerciseService
	apiKeyHash []byte
	httpServer *http.Server
}

func NewServer(cfg *Config, nutritionService service.INutritionService, exerciseService service.IExerciseService) *Server {
	s := &Server{
		nutrition: nutritionService,
		exercises: exerciseService,
	}
	if cfg.APIKeyHash != "" {
		s.apiKeyHash = []byte(cfg.APIKeyHash)
	} else {
		log.Printf("[MCP] No API key hash configured, tool endpoint is unauthenticated")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving tool calls.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case ToolValidateMeal:
		result, err = s.handleValidateMeal(ctx, &request)
	case ToolValidateIngredient:
		result, err = s.handleValidateIngredient(ctx, &request)
	case ToolFindAlternatives:
		result, err = s.handleFindAlternatives(ctx, &request)
	default:
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, errInvalidParams):
			status = http.StatusBadRequest
		case errors.Is(err, exercisedb.ErrNotFound):
			status = http.StatusNotFound
		default:
			log.Printf("[MCP] Tool %s failed: %v", request.Name, err)
		}
		http.Error(w, err.Error(), status)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("[MCP] Failed to encode response: %v", err)
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.apiKeyHash == nil {
		return true
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(parts[1])) == nil
}

func (s *Server) Start() error {
	log.Printf("[MCP] Starting %s on %s", Info.Name, s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
