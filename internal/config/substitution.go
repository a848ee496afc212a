package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${env://NAME} and ${env://NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// MissingEnvError lists the variables a config file requires but the
// environment does not provide.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("environment variable substitution failed: required variables not set: %s",
		strings.Join(e.Names, ", "))
}

// ExpandEnv replaces ${env://NAME} and ${env://NAME:-default} references in
// content. An empty variable counts as unset. References without a default
// whose variable is unset are collected into a *MissingEnvError.
func ExpandEnv(content string) (string, error) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		if value := os.Getenv(name); value != "" {
			return value
		}
		if strings.Contains(match, ":-") {
			return sub[2]
		}
		missing = append(missing, name)
		return match
	})

	if len(missing) > 0 {
		return "", &MissingEnvError{Names: missing}
	}
	return result, nil
}

// HasEnvVars reports whether content contains any ${env://...} reference.
func HasEnvVars(content string) bool {
	return envVarPattern.MatchString(content)
}
