package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// File catalog seed document
//
//	organizations:
//	  - org_id: org1
//	    skus:
//	      - sku_id: A
//	        sku_name: Apple
type File struct {
	Organizations []Organization `yaml:"organizations"`
}

// Organization SKUs of one organization
type Organization struct {
	OrgID string                   `yaml:"org_id"`
	Skus  []entity.SkuCatalogEntry `yaml:"skus"`
}

// Load reads a seed file from disk
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document; unknown keys are rejected so typos surface early
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog file is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for i, org := range f.Organizations {
		if strings.TrimSpace(org.OrgID) == "" {
			return nil, fmt.Errorf("organization %d has no org_id", i+1)
		}
	}
	return &f, nil
}
