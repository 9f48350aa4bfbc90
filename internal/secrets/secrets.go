// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads local, uncommitted settings from a directory of
// plain-text files. The filename is the key and the trimmed contents are
// the value.
//
// Supported key files: ncbi-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// KeyNCBIEmail holds the contact address NCBI asks harvesting tools to
// send along with their requests.
const KeyNCBIEmail = "ncbi-email"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files are logged and skipped.
func Load(dir string, log *zap.SugaredLogger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnw("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// UserAgent appends the contact address from s, if any, to base.
func UserAgent(base string, s map[string]string) string {
	if email := s[KeyNCBIEmail]; email != "" {
		return fmt.Sprintf("%s (mailto:%s)", base, email)
	}
	return base
}
