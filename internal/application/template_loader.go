package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// TemplateLoader provides YAML parsing, validation, and caching for
// tournament templates. Identical template content is parsed and
// validated once; concurrent loads of the same content are collapsed
// into a single compilation.
type TemplateLoader struct {
	// validator performs struct field validation and custom validation
	// rules for templates and their nested sections.
	validator *validator.Validate
	// cache stores validated templates indexed by SHA256 hash of the
	// source YAML. Cached templates must not be mutated.
	cache map[string]*TournamentTemplate
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines load
	// the same template simultaneously.
	sf singleflight.Group
}

// NewTemplateLoader creates a loader with custom validators registered
// and an empty cache.
func NewTemplateLoader() (*TemplateLoader, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &TemplateLoader{
		validator: v,
		cache:     make(map[string]*TournamentTemplate),
	}, nil
}

// LoadFromFile loads and validates a tournament template from a YAML
// file. The returned template is a pointer to a cached instance and
// must not be mutated.
func (tl *TemplateLoader) LoadFromFile(ctx context.Context, path string) (*TournamentTemplate, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", cleanPath, err)
	}
	return tl.load(ctx, data)
}

// LoadFromReader loads and validates a tournament template from a
// reader.
func (tl *TemplateLoader) LoadFromReader(ctx context.Context, r io.Reader) (*TournamentTemplate, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return tl.load(ctx, buf.Bytes())
}

// LoadFromBytes loads and validates a tournament template from raw
// YAML.
func (tl *TemplateLoader) LoadFromBytes(ctx context.Context, data []byte) (*TournamentTemplate, error) {
	return tl.load(ctx, data)
}

// load parses, validates, and caches template content keyed by its
// content hash.
func (tl *TemplateLoader) load(ctx context.Context, data []byte) (*TournamentTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if tpl, ok := tl.getCached(hash); ok {
		return tpl, nil
	}

	v, err, _ := tl.sf.Do(hash, func() (any, error) {
		// Re-check inside singleflight to handle the race between the
		// cache check and group execution.
		if tpl, ok := tl.getCached(hash); ok {
			return tpl, nil
		}

		var tpl TournamentTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("failed to parse template YAML: %w", err)
		}
		if err := tl.validator.Struct(&tpl); err != nil {
			return nil, fmt.Errorf("template validation failed: %w", err)
		}
		if err := validateTemplateSemantics(&tpl); err != nil {
			return nil, err
		}

		tl.cacheMu.Lock()
		tl.cache[hash] = &tpl
		tl.cacheMu.Unlock()
		return &tpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TournamentTemplate), nil
}

func (tl *TemplateLoader) getCached(hash string) (*TournamentTemplate, bool) {
	tl.cacheMu.RLock()
	defer tl.cacheMu.RUnlock()
	tpl, ok := tl.cache[hash]
	return tpl, ok
}

// ClearCache removes all cached templates, forcing revalidation on the
// next load.
func (tl *TemplateLoader) ClearCache() {
	tl.cacheMu.Lock()
	defer tl.cacheMu.Unlock()
	tl.cache = make(map[string]*TournamentTemplate)
}
