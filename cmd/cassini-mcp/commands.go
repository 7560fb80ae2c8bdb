// ABOUTME: Subcommands for cassini-mcp
// ABOUTME: serve runs the HTTP server, the rest are operator helpers

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/cassini-mcp/internal/config"
	"github.com/2389/cassini-mcp/internal/mcp"
	"github.com/2389/cassini-mcp/internal/server"
	"github.com/2389/cassini-mcp/internal/store"
	"github.com/2389/cassini-mcp/internal/tools"
)

// loadConfig resolves and loads the config named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	flagValue, _ := cmd.Flags().GetString("config")
	configPath := config.ResolvePath(flagValue)

	var cfg *config.Config
	var err error
	if flagValue != "" {
		// An explicit path must exist.
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(configPath)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	if !cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Print(" [funnel]")
		} else if cfg.Tailscale.HTTPS {
			yellow.Print(" [https]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}
	if cfg.Cache.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Cache:     %d entries, ttl %s\n", cfg.Cache.Size, cfg.Cache.TTL)
	}
	if cfg.Metrics.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Metrics:   %s\n", cfg.Metrics.Path)
	}

	fmt.Println()

	logger.Info("starting cassini-mcp",
		"config", configPath,
		"database", cfg.Database.Path,
		"http_addr", cfg.Server.HTTPAddr,
	)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(cmd.Context())
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that a running server can reach its database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runHealth(cmd.Context(), cmd.OutOrStdout(), "http://"+cfg.Server.HTTPAddr)
		},
	}
}

func runHealth(ctx context.Context, out io.Writer, baseURL string) error {
	url := strings.TrimSuffix(baseURL, "/") + "/health/ready"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	fmt.Fprintln(out, strings.TrimSpace(string(body)))
	return nil
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of observations in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := store.NewSQLiteStore(cfg.Database.Path, quietLogger())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer s.Close()

			count, err := s.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("counting observations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d observations\n", cfg.Database.Path, count)
			return nil
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchLocal(cmd, "tools/list", nil)
		},
	}
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Invoke a tool against the local database and print the JSON-RPC response",
		Example: `  cassini-mcp call query_observations_by_target '{"target":"Titan","limit":5}'
  cassini-mcp call get_observation_details '{"id":42}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := json.RawMessage(`{}`)
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("arguments are not valid JSON: %s", args[1])
				}
				arguments = json.RawMessage(args[1])
			}

			params, err := json.Marshal(struct {
				Name      string          `json:"name"`
				Arguments json.RawMessage `json:"arguments"`
			}{Name: args[0], Arguments: arguments})
			if err != nil {
				return fmt.Errorf("encoding params: %w", err)
			}
			return dispatchLocal(cmd, "tools/call", params)
		},
	}
}

// dispatchLocal runs one JSON-RPC request through an in-process dispatcher
// backed by the configured database.
func dispatchLocal(cmd *cobra.Command, method string, params json.RawMessage) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := quietLogger()

	s, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	out, err := dispatch(cmd.Context(), s, logger, method, params)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func dispatch(ctx context.Context, s store.ObservationStore, logger *slog.Logger, method string, params json.RawMessage) ([]byte, error) {
	reg, err := server.NewRegistry(s, logger)
	if err != nil {
		return nil, err
	}
	mcpServer, err := mcp.NewServer(mcp.Config{Registry: reg, Logger: logger})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(mcp.Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      mcp.ID(`"cli"`),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return mcpServer.Handle(ctx, raw), nil
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.json>",
		Short: "Insert observations from a JSON array into the database",
		Long: `Reads a JSON array of observations using the same snake_case keys that
get_observation_details returns, and inserts them in one transaction.
Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			observations, err := decodeObservations(in)
			if err != nil {
				return err
			}

			s, err := store.NewSQLiteStore(cfg.Database.Path, quietLogger())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer s.Close()

			if err := s.Insert(cmd.Context(), observations...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d observations into %s\n", len(observations), cfg.Database.Path)
			return nil
		},
	}
}

// decodeObservations reads a JSON array of detail-shaped records.
func decodeObservations(r io.Reader) ([]*store.Observation, error) {
	var records []tools.ObservationDetail
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding observations: %w", err)
	}

	observations := make([]*store.Observation, 0, len(records))
	for i, rec := range records {
		if rec.ID <= 0 {
			return nil, fmt.Errorf("record %d: id must be a positive integer", i)
		}
		if rec.StartTimeUTC == "" {
			return nil, fmt.Errorf("record %d (id %d): start_time_utc is required", i, rec.ID)
		}
		observations = append(observations, &store.Observation{
			ID:                rec.ID,
			StartTimeUTC:      rec.StartTimeUTC,
			Duration:          rec.Duration,
			Date:              rec.Date,
			Team:              rec.Team,
			SpassType:         rec.SpassType,
			Target:            rec.Target,
			RequestName:       rec.RequestName,
			LibraryDefinition: rec.LibraryDefinition,
			Title:             rec.Title,
			Description:       rec.Description,
		})
	}
	return observations, nil
}
