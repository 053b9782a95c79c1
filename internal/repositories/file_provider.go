package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileCatalogProvider reads the catalog feed from a local JSON or YAML file.
// The format is chosen by file extension; anything that is not .yaml/.yml is
// decoded as JSON.
type FileCatalogProvider struct {
	path string
}

// NewFileCatalogProvider constructs a provider for the given feed path.
func NewFileCatalogProvider(path string) (*FileCatalogProvider, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("catalog provider: feed path is required")
	}
	return &FileCatalogProvider{path: path}, nil
}

// Fetch implements CatalogProvider.
func (p *FileCatalogProvider) Fetch(ctx context.Context) (CatalogFeed, error) {
	if err := ctx.Err(); err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorFetch, Source: p.path, Err: err}
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorFetch, Source: p.path, Err: err}
	}

	var feed CatalogFeed
	switch strings.ToLower(filepath.Ext(p.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &feed)
	default:
		err = json.Unmarshal(raw, &feed)
	}
	if err != nil {
		return CatalogFeed{}, &LoadError{Kind: LoadErrorDecode, Source: p.path, Err: err}
	}
	return feed, nil
}
