// Package config provides 12-factor configuration management for the service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - Interactive: Window language, title, evaluator timeout, command manifest
//   - Refactor: External change-signature service endpoint
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - INTERACTIVE_LANGUAGE, INTERACTIVE_TITLE, INTERACTIVE_EVAL_TIMEOUT,
//     INTERACTIVE_COMMANDS, INTERACTIVE_SHELL
//   - REFACTOR_ADDR, REFACTOR_ENABLED
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
