// Package annotations loads the locally maintained milestone annotation
// file. YAML is the native format; JSON files (comments and trailing
// commas allowed) are read as well.
package annotations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/ports/secondary"
)

// Store implements secondary.AnnotationSource.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a new annotation store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// LoadAnnotations reads and decodes the annotation file at path.
func (s *Store) LoadAnnotations(ctx context.Context, path string) (reconcile.Annotations, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &reconcile.SourceUnavailableError{Path: path, Err: err}
	}

	annotations, err := Decode(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode annotations %s: %w", path, err)
	}

	s.logger.Info("loaded local annotations", "path", path, "entries", len(annotations))
	return annotations, nil
}

// Format selects the annotation file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses annotation data. The top level must map milestone codes to
// mappings of field names; a code with an empty body yields an empty entry.
func Decode(data []byte, format Format) (reconcile.Annotations, error) {
	var raw map[string]any

	switch format {
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			return reconcile.Annotations{}, nil
		}
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	}

	annotations := make(reconcile.Annotations, len(raw))
	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		switch body := raw[code].(type) {
		case nil:
			annotations[code] = reconcile.Entry{}
		case map[string]any:
			annotations[code] = reconcile.Entry(body)
		default:
			return nil, &reconcile.MalformedAnnotationError{
				Code:   code,
				Value:  body,
				Reason: "entry must be a mapping of field names",
			}
		}
	}

	return annotations, nil
}

// Ensure Store implements the interface.
var _ secondary.AnnotationSource = (*Store)(nil)
