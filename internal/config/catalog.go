package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/cgpa/internal/grades"
	"github.com/jeanpaul/cgpa/internal/schema"
)

type catalogFile struct {
	Semesters []grades.CatalogEntry `yaml:"semesters"`
}

// LoadCatalog returns the catalog named by cfg.CatalogFile, or the built-in
// catalog when none is configured.
func LoadCatalog(cfg *Config, v *schema.Validator) (*grades.Catalog, error) {
	if cfg.CatalogFile == "" {
		return grades.DefaultCatalog(), nil
	}
	return ReadCatalogFile(cfg.CatalogFile, v)
}

// ReadCatalogFile parses a YAML catalog and validates it against
// schema.CatalogSchema before building the catalog.
func ReadCatalogFile(path string, v *schema.Validator) (*grades.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file '%s' not found", path)
		}
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if err := v.Validate(schema.CatalogSchema, doc); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return grades.NewCatalog(cf.Semesters)
}

// WriteCatalogFile saves c as YAML, creating parent directories.
func WriteCatalogFile(path string, c *grades.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(catalogFile{Semesters: c.Entries()})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
