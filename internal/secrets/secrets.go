// Package secrets resolves named credential references to API token values.
// Tokens are fetched just-in-time for each request, are never logged and are
// never retained by callers after the request completes.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/galkoren/pve-pipeline-ops/internal/config"
)

// TokenSource resolves a credential reference to a token value scoped to a
// single operation's lifetime.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed in-memory token, intended for tests and local use.
type Static string

// Token returns the static token value.
func (s Static) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("static token is empty")
	}
	return string(s), nil
}

// EnvSource reads the token from an environment variable on every call.
type EnvSource struct {
	Var string
}

// Token returns the current value of the configured environment variable.
func (e EnvSource) Token(ctx context.Context) (string, error) {
	value, ok := os.LookupEnv(e.Var)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable %s is not set", e.Var)
	}
	return strings.TrimSpace(value), nil
}

// FileSource reads the token from a file on every call, so rotated secrets
// are picked up without a restart.
type FileSource struct {
	Path string
}

// Token returns the trimmed contents of the configured file.
func (f FileSource) Token(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("credential file %s is empty", f.Path)
	}
	return token, nil
}

// FromConfig builds a TokenSource from the configured credential reference.
func FromConfig(cfg config.CredentialConfig) (TokenSource, error) {
	switch cfg.Source {
	case "static":
		return Static(cfg.Value), nil
	case "env":
		return EnvSource{Var: cfg.EnvVar}, nil
	case "file":
		return FileSource{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported credential source: %s", cfg.Source)
	}
}
