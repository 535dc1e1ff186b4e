// ABOUTME: Entry point for the forecast-gateway MCP server
// ABOUTME: Serves a bearer-authenticated JSON-RPC endpoint exposing the forecast tool

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/prototypr/forecast-gateway/internal/config"
	"github.com/prototypr/forecast-gateway/internal/forecast"
	"github.com/prototypr/forecast-gateway/internal/gateway"
	"github.com/prototypr/forecast-gateway/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  __                            _                    _
 / _| ___  _ __ ___  ___ __ _ _| |_       __ _  __ _| |_ _____      ____ _ _   _
| |_ / _ \| '__/ _ \/ __/ _' |_   _|____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
|  _| (_) | | |  __/ (_| (_| | |_||_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
|_|  \___/|_|  \___|\___\__,_|\__|       \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                                         |___/                             |___/
`

const starterConfig = `server:
  http_addr: "localhost:3000"

auth:
  token: "${MCP_TOKEN}"

forecast:
  timeout: "30s"
  default_periods: 10

logging:
  level: "info"
  format: "text"
`

// getConfigPath returns the path to the gateway config file.
// Priority: FORECAST_GATEWAY_CONFIG env var > XDG_CONFIG_HOME/forecast-gateway/gateway.yaml > ~/.config/forecast-gateway/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("FORECAST_GATEWAY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "forecast-gateway", "gateway.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: forecast-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the MCP server")
		fmt.Println("  init      Create a starter config file")
		fmt.Println("  health    Check the server over the MCP endpoint")
		fmt.Println("  version   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Endpoint: http://%s/mcp\n", cfg.Server.HTTPAddr)
	fmt.Println()

	logger.Info("starting forecast-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"tool_timeout", cfg.Forecast.Timeout,
	)

	registry := tools.NewRegistry(logger)
	if err := registry.Register(forecast.NewTool(forecast.New(), cfg.Forecast.DefaultPeriods)); err != nil {
		return fmt.Errorf("registering forecast tool: %w", err)
	}

	srv := gateway.New(gateway.Options{
		Token:         cfg.Auth.Token,
		Registry:      registry,
		Logger:        logger,
		ToolTimeout:   cfg.Forecast.Timeout,
		ServerName:    "forecast-gateway",
		ServerVersion: version,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", srv)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Created %s\n", configPath)
	fmt.Println("Set MCP_TOKEN in the environment before starting the server.")
	return nil
}

// runHealth probes the running server through the MCP endpoint itself: an
// authenticated initialize round-trip proves parse, auth, and dispatch work.
func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/mcp", cfg.Server.HTTPAddr)
	body := []byte(`{"jsonrpc":"2.0","method":"initialize","id":"health"}`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.Auth.Token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, data)
	}

	fmt.Println("healthy")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}
