// Package config handles configuration loading for forecast-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FORECAST_GATEWAY_CONFIG environment variable
//  2. ~/.config/forecast-gateway/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  token: "${MCP_TOKEN}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "localhost:3000"
//
// Authentication:
//
//	auth:
//	  token: "${MCP_TOKEN}"   # Required; compared against Bearer tokens
//
// Forecasting:
//
//	forecast:
//	  timeout: "30s"          # Per-call bound on the model fit
//	  default_periods: 10     # Horizon when the caller omits periods
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - auth.token is non-empty after expansion
//   - forecast.default_periods is at least 1
//   - logging.format is a known value
//   - Duration format validity
package config
