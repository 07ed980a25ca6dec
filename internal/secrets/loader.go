// Package secrets resolves credential values from configuration or files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret value may come from.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret provided via configuration, a flag or a bound
	// environment variable. When set it wins over File.
	Value string
	// File points to a file containing the secret value.
	File string
	// Hint is appended to the not-configured error and tells the operator
	// how to provide the secret.
	Hint string
}

// Load returns the resolved secret value from the provided source. The inline
// value wins, then the file, both trimmed. An error is returned when neither
// yields a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}

		return secret, nil
	}

	if hint := strings.TrimSpace(src.Hint); hint != "" {
		return "", fmt.Errorf("%s is not configured (%s)", name, hint)
	}

	return "", fmt.Errorf("%s is not configured", name)
}
