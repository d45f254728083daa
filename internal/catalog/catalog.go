// Package catalog loads and validates the category catalog: the closed
// set of categories, their rules, and optional centroid embeddings.
// Validation is eager so malformed definitions fail at startup, before
// any document is processed.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mpetrenko/docsort/internal/model"
)

// Catalog is the immutable, process-wide category configuration.
// It is loaded once before workers start and shared read-only.
type Catalog struct {
	Categories  []model.Category
	Names       []string // category names, sorted
	Path        string
	Fingerprint string // digest of the catalog file contents
	dim         int    // centroid dimensionality, 0 when no centroids
}

type catalogFile struct {
	Categories []categoryDef `yaml:"categories"`
}

type categoryDef struct {
	Name     string       `yaml:"name"`
	Centroid string       `yaml:"centroid,omitempty"` // path to JSON vector, relative to the catalog file
	Rules    []model.Rule `yaml:"rules"`
}

// Load reads, validates, and resolves a catalog file. Any violation is
// returned as a *model.ConfigurationError.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigurationError{Detail: "read catalog", Err: err}
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &model.ConfigurationError{Detail: "parse catalog", Err: err}
	}

	if len(file.Categories) == 0 {
		return nil, &model.ConfigurationError{Detail: "catalog defines no categories"}
	}

	sum := sha256.Sum256(raw)
	cat := &Catalog{
		Path:        path,
		Fingerprint: hex.EncodeToString(sum[:])[:16],
	}

	baseDir := filepath.Dir(path)
	seen := make(map[string]bool)

	for i, def := range file.Categories {
		if err := validateCategory(i, def, seen); err != nil {
			return nil, err
		}

		c := model.Category{
			Name:  def.Name,
			Rules: def.Rules,
		}

		if def.Centroid != "" {
			vec, err := loadCentroid(baseDir, def.Centroid)
			if err != nil {
				return nil, &model.ConfigurationError{
					Detail: fmt.Sprintf("category %q centroid", def.Name),
					Err:    err,
				}
			}
			if cat.dim == 0 {
				cat.dim = len(vec)
			} else if len(vec) != cat.dim {
				return nil, &model.ConfigurationError{
					Detail: fmt.Sprintf("category %q centroid has dimension %d, expected %d",
						def.Name, len(vec), cat.dim),
				}
			}
			c.Centroid = vec
		}

		cat.Categories = append(cat.Categories, c)
		cat.Names = append(cat.Names, def.Name)
	}

	// Mixed centroid coverage would silently bias the semantic stage
	// toward covered categories, so it is rejected outright.
	if cat.dim > 0 {
		for _, c := range cat.Categories {
			if !c.HasCentroid() {
				return nil, &model.ConfigurationError{
					Detail: fmt.Sprintf("category %q has no centroid while others do", c.Name),
				}
			}
		}
	}

	sort.Strings(cat.Names)
	return cat, nil
}

// New builds a catalog from in-memory categories, applying the same
// validation as Load. Centroids must already be attached.
func New(categories []model.Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, &model.ConfigurationError{Detail: "catalog defines no categories"}
	}

	cat := &Catalog{Fingerprint: "inline"}
	seen := make(map[string]bool)

	for i, c := range categories {
		def := categoryDef{Name: c.Name, Rules: c.Rules}
		if err := validateCategory(i, def, seen); err != nil {
			return nil, err
		}
		if c.HasCentroid() {
			if cat.dim == 0 {
				cat.dim = len(c.Centroid)
			} else if len(c.Centroid) != cat.dim {
				return nil, &model.ConfigurationError{
					Detail: fmt.Sprintf("category %q centroid has dimension %d, expected %d",
						c.Name, len(c.Centroid), cat.dim),
				}
			}
		}
		cat.Categories = append(cat.Categories, c)
		cat.Names = append(cat.Names, c.Name)
	}

	if cat.dim > 0 {
		for _, c := range cat.Categories {
			if !c.HasCentroid() {
				return nil, &model.ConfigurationError{
					Detail: fmt.Sprintf("category %q has no centroid while others do", c.Name),
				}
			}
		}
	}

	sort.Strings(cat.Names)
	return cat, nil
}

// HasCentroids reports whether the semantic stage can run at all
func (c *Catalog) HasCentroids() bool {
	return c.dim > 0
}

// Dim returns the centroid dimensionality, 0 when no centroids are loaded
func (c *Catalog) Dim() int {
	return c.dim
}

// Contains reports whether name is a configured category or the
// Unclassified sentinel.
func (c *Catalog) Contains(name string) bool {
	if name == model.CategoryUnclassified {
		return true
	}
	i := sort.SearchStrings(c.Names, name)
	return i < len(c.Names) && c.Names[i] == name
}

func validateCategory(idx int, def categoryDef, seen map[string]bool) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return &model.ConfigurationError{Detail: fmt.Sprintf("category %d has an empty name", idx)}
	}
	if name == model.CategoryUnclassified {
		return &model.ConfigurationError{Detail: fmt.Sprintf("category name %q is reserved", name)}
	}
	if seen[name] {
		return &model.ConfigurationError{Detail: fmt.Sprintf("duplicate category name %q", name)}
	}
	seen[name] = true

	if len(def.Rules) == 0 {
		return &model.ConfigurationError{Detail: fmt.Sprintf("category %q has no rules", name)}
	}

	for j, r := range def.Rules {
		where := fmt.Sprintf("category %q rule %d", name, j)

		switch r.Kind {
		case model.RuleKindKeyword, model.RuleKindRegex:
		default:
			return &model.ConfigurationError{Detail: fmt.Sprintf("%s: unknown kind %q", where, r.Kind)}
		}
		switch r.Field {
		case model.FieldText, model.FieldFilename, model.FieldMetadata:
		default:
			return &model.ConfigurationError{Detail: fmt.Sprintf("%s: unknown field %q", where, r.Field)}
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return &model.ConfigurationError{Detail: fmt.Sprintf("%s: empty pattern", where)}
		}
		if r.Weight <= 0 {
			return &model.ConfigurationError{Detail: fmt.Sprintf("%s: weight must be positive, got %v", where, r.Weight)}
		}
		if r.Kind == model.RuleKindRegex {
			if _, err := regexp.Compile("(?i)" + r.Pattern); err != nil {
				return &model.ConfigurationError{Detail: fmt.Sprintf("%s: invalid regex", where), Err: err}
			}
		}
	}

	return nil
}

func loadCentroid(baseDir, ref string) ([]float64, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, ref)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read centroid: %w", err)
	}

	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, fmt.Errorf("parse centroid: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("centroid %s is empty", ref)
	}

	return vec, nil
}
