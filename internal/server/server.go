// ABOUTME: Server orchestrator that wires the observation store, tools and MCP endpoint
// ABOUTME: Manages the HTTP listener (TCP or tailnet), health endpoints and shutdown

package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/2389/cassini-mcp/internal/config"
	"github.com/2389/cassini-mcp/internal/mcp"
	"github.com/2389/cassini-mcp/internal/metrics"
	"github.com/2389/cassini-mcp/internal/registry"
	"github.com/2389/cassini-mcp/internal/store"
	"github.com/2389/cassini-mcp/internal/tools"
)

// readyTimeout bounds the repository probe behind /health/ready.
const readyTimeout = 5 * time.Second

// Server serves the Cassini observation tools over MCP.
type Server struct {
	config      *config.Config
	store       store.ObservationStore
	registry    *registry.Registry
	mcpServer   *mcp.Server
	metrics     *metrics.Metrics
	mux         *http.ServeMux
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger

	// mcpEndpoint is the URL clients should use (e.g., "http://localhost:8080/mcp")
	mcpEndpoint string
}

// OpenStore opens the SQLite database named by the config, wrapped in the
// query cache when it is enabled.
func OpenStore(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (store.ObservationStore, error) {
	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path, logger.With("component", "store"))
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return wrapCache(cfg, sqlStore, m, logger)
}

func wrapCache(cfg *config.Config, s store.ObservationStore, m *metrics.Metrics, logger *slog.Logger) (store.ObservationStore, error) {
	if !cfg.Cache.Enabled {
		return s, nil
	}
	cached, err := store.NewCachedStore(s, cfg.Cache.Size, cfg.Cache.TTL, logger.With("component", "cache"))
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	cached.OnLookup = m.RecordCacheLookup
	return cached, nil
}

// New creates a Server backed by the configured SQLite database.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	s, err := OpenStore(cfg, m, logger)
	if err != nil {
		return nil, err
	}

	srv, err := build(cfg, s, m, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithStore creates a Server over an existing repository. The cache
// setting still applies. The Server takes ownership of s.
func NewWithStore(cfg *config.Config, s store.ObservationStore, logger *slog.Logger) (*Server, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	wrapped, err := wrapCache(cfg, s, m, logger)
	if err != nil {
		return nil, err
	}
	return build(cfg, wrapped, m, logger)
}

// NewRegistry returns a registry holding the four observation tools over s.
func NewRegistry(s store.ObservationStore, logger *slog.Logger) (*registry.Registry, error) {
	reg := registry.New(logger.With("component", "registry"))
	if err := tools.Register(reg, tools.Observations(s, logger.With("component", "tools"))...); err != nil {
		return nil, err
	}
	return reg, nil
}

func build(cfg *config.Config, s store.ObservationStore, m *metrics.Metrics, logger *slog.Logger) (*Server, error) {
	reg, err := NewRegistry(s, logger)
	if err != nil {
		return nil, err
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry: reg,
		Logger:   logger.With("component", "mcp"),
		Metrics:  m,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	srv := &Server{
		config:      cfg,
		store:       s,
		registry:    reg,
		mcpServer:   mcpServer,
		metrics:     m,
		logger:      logger.With("component", "server"),
		mcpEndpoint: "http://" + cfg.Server.HTTPAddr + "/mcp",
	}

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/health/ready", srv.handleReady)

	if m != nil {
		mux.Handle(cfg.Metrics.Path, m.Handler())
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	mcpServer.RegisterRoutes(mux)

	srv.mux = mux
	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// Handler returns the HTTP handler serving every endpoint.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Registry returns the tool registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// setupTCPListener creates a standard TCP listener for HTTP.
func (s *Server) setupTCPListener() (net.Listener, error) {
	s.logger.Info("starting server", "http_addr", s.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// setupListener creates the listener based on configuration (Tailscale or TCP).
func (s *Server) setupListener(ctx context.Context) (net.Listener, error) {
	if s.config.Tailscale.Enabled {
		if s.config.Server.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled",
				"http_addr", s.config.Server.HTTPAddr,
			)
		}
		return s.setupTailscaleListener(ctx)
	}
	return s.setupTCPListener()
}

// startServer starts the HTTP server in a goroutine, returning its error channel.
func (s *Server) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening",
			"addr", ln.Addr().String(),
			"mcp_endpoint", s.mcpEndpoint,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener(ctx)
	if err != nil {
		return err
	}

	errCh := s.startServer(ln)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The original context is already canceled by the time this runs.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// resolveTailscaleStateDir returns the state directory, using default if not configured.
func resolveTailscaleStateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for tailscale state (set tailscale.state_dir explicitly): %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "cassini-mcp", "tailscale"), nil
}

// resolveTailscaleAuthKey returns the auth key from config or environment.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable")
	}
	return authKey, nil
}

// setupTailscaleListener starts a tsnet node and returns its HTTP listener.
func (s *Server) setupTailscaleListener(ctx context.Context) (net.Listener, error) {
	tsCfg := s.config.Tailscale

	stateDir, err := resolveTailscaleStateDir(tsCfg.StateDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}

	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	s.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
		Logf: func(format string, args ...any) {
			s.logger.Debug(fmt.Sprintf(format, args...), "source", "tsnet")
		},
	}

	s.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := s.tsnetServer.Up(ctx)
	if err != nil {
		_ = s.tsnetServer.Close()
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}

	s.logTailscaleStatus(tsCfg.Hostname, status)
	s.updateMCPEndpointFromStatus(status)

	return s.createTailscaleHTTPListener(tsCfg)
}

// logTailscaleStatus logs info about the tailscale node status.
func (s *Server) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var tsAddr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		tsAddr = status.TailscaleIPs[0].String()
	} else {
		s.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	s.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", tsAddr, "dns_name", dnsName)
}

// updateMCPEndpointFromStatus points the advertised endpoint at the tailnet DNS name.
func (s *Server) updateMCPEndpointFromStatus(status *ipnstate.Status) {
	if status.Self == nil || status.Self.DNSName == "" {
		return
	}
	scheme := "http"
	if s.config.Tailscale.HTTPS || s.config.Tailscale.Funnel {
		scheme = "https"
	}
	cleanDNS := strings.TrimSuffix(status.Self.DNSName, ".")
	newEndpoint := scheme + "://" + cleanDNS + "/mcp"
	if newEndpoint != s.mcpEndpoint {
		s.logger.Info("updated MCP endpoint to use Tailscale DNS name", "old", s.mcpEndpoint, "new", newEndpoint)
		s.mcpEndpoint = newEndpoint
	}
}

// createTailscaleHTTPListener creates the appropriate HTTP listener based on config.
func (s *Server) createTailscaleHTTPListener(tsCfg config.TailscaleConfig) (net.Listener, error) {
	switch {
	case tsCfg.Funnel:
		s.logger.Info("enabling tailscale funnel (public HTTPS) on :443")
		ln, err := s.tsnetServer.ListenFunnel("tcp", ":443")
		if err != nil {
			_ = s.tsnetServer.Close()
			return nil, fmt.Errorf("listening on tailscale funnel port: %w", err)
		}
		return ln, nil
	case tsCfg.HTTPS:
		return s.createTailscaleTLSListener()
	default:
		ln, err := s.tsnetServer.Listen("tcp", ":80")
		if err != nil {
			_ = s.tsnetServer.Close()
			return nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
		}
		return ln, nil
	}
}

// createTailscaleTLSListener creates a TLS listener using Tailscale's auto-provisioned certs.
func (s *Server) createTailscaleTLSListener() (net.Listener, error) {
	s.logger.Info("enabling HTTPS with Tailscale certs on :443")
	ln, err := s.tsnetServer.Listen("tcp", ":443")
	if err != nil {
		_ = s.tsnetServer.Close()
		return nil, fmt.Errorf("listening on tailscale HTTPS port: %w", err)
	}
	lc, err := s.tsnetServer.LocalClient()
	if err != nil {
		_ = ln.Close()
		_ = s.tsnetServer.Close()
		return nil, fmt.Errorf("getting tailscale local client: %w", err)
	}
	return tls.NewListener(ln, &tls.Config{
		GetCertificate: lc.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}), nil
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(result *multierror.Error, label string, err error) *multierror.Error {
	if err != nil {
		return multierror.Append(result, fmt.Errorf("%s: %w", label, err))
	}
	return result
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var result *multierror.Error
	result = appendCloseError(result, "HTTP shutdown", s.httpServer.Shutdown(ctx))

	if s.tsnetServer != nil {
		result = appendCloseError(result, "tailscale shutdown", s.tsnetServer.Close())
	}
	result = appendCloseError(result, "store close", s.store.Close())

	return result.ErrorOrNil()
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// readyResponse is the body of /health/ready.
type readyResponse struct {
	Status       string `json:"status"`
	TotalRecords int    `json:"total_records"`
	Error        string `json:"error,omitempty"`
}

// handleReady returns 200 OK with the record count if the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := readyResponse{Status: "ready"}
	status := http.StatusOK

	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		resp = readyResponse{Status: "unavailable", Error: err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		resp.TotalRecords = count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode readiness response", "error", err)
	}
}
