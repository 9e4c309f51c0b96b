package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/phng25/k8s-ai-sec-remediator/internal/analyzer"
)

// ServerOptions configures the MCP server.
type ServerOptions struct {
	// Port is the HTTP port to listen on. Default: 8090.
	Port int

	// Logger for server operations.
	Logger *zap.Logger
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{Port: 8090}
}

// Server exposes manifest analysis to AI agents over HTTP.
type Server struct {
	logger     *zap.Logger
	opts       ServerOptions
	handlers   *Handlers
	httpServer *http.Server
}

// NewServer creates a new MCP server around an analyzer.
func NewServer(a *analyzer.Analyzer, opts ServerOptions) *Server {
	if opts.Port == 0 {
		opts.Port = 8090
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Server{
		logger:   opts.Logger.Named("mcp-server"),
		opts:     opts,
		handlers: NewHandlers(a, opts.Logger),
	}
}

// Start begins the MCP server. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Tool endpoints
	mux.HandleFunc("/tools/analyze_manifest_for_pss", s.handleTool(s.handlers.HandleAnalyze))
	mux.HandleFunc("/tools/list_pss_rules", s.handleTool(s.handlers.HandleListRules))

	// Resource endpoints
	mux.HandleFunc("/resources/health", s.handleResource(s.handlers.HandleHealthResource))
	mux.HandleFunc("/resources/capabilities", s.handleResource(s.handlers.HandleCapabilitiesResource))

	// MCP protocol endpoints
	mux.HandleFunc("/mcp/tools", s.handleToolsList)
	mux.HandleFunc("/mcp/resources", s.handleResourcesList)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.opts.Port),
		Handler: mux,
	}

	s.logger.Info("Starting MCP server", zap.Int("port", s.opts.Port))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleTool wraps a tool handler with common middleware.
func (s *Server) handleTool(handler func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}
}

// handleResource wraps a resource handler with common middleware.
func (s *Server) handleResource(handler func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tools := []map[string]interface{}{
		{
			"name":        "analyze_manifest_for_pss",
			"description": "Analyze a Kubernetes manifest against a Pod Security Standards profile and get violations plus a corrective patch",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"manifest_yaml": map[string]string{"type": "string", "description": "YAML or JSON manifest, multi-document inputs supported"},
					"profile":       map[string]string{"type": "string", "description": "Profile to enforce: baseline or restricted (default restricted)"},
				},
				"required": []string{"manifest_yaml"},
			},
		},
		{
			"name":        "list_pss_rules",
			"description": "List the Pod Security Standards rules a profile enforces",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"profile": map[string]string{"type": "string", "description": "Profile to list rules for (default restricted)"},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"tools": tools})
}

// handleResourcesList returns the list of available resources.
func (s *Server) handleResourcesList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resources := []map[string]interface{}{
		{
			"uri":         "pss://health",
			"name":        "Health Status",
			"description": "Operational health of the analyzer",
			"mimeType":    "application/json",
		},
		{
			"uri":         "pss://capabilities",
			"name":        "Capabilities",
			"description": "Catalog version, rule counts, and supported workload kinds",
			"mimeType":    "application/json",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"resources": resources})
}
