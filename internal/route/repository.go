package route

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Repository is a source of route records. It is read once at startup.
type Repository interface {
	LoadRoutes(ctx context.Context) ([]Route, error)
}

// StaticRepository serves the built-in catalogue.
type StaticRepository struct {
	routes []Route
}

// NewStaticRepository creates a repository over routes. Nil means
// DefaultRoutes.
func NewStaticRepository(routes []Route) *StaticRepository {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &StaticRepository{routes: routes}
}

// LoadRoutes returns a copy of the configured routes.
func (r *StaticRepository) LoadRoutes(_ context.Context) ([]Route, error) {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out, nil
}

// FixtureFile is the YAML layout read by FileRepository and written by
// routegen.
type FixtureFile struct {
	Version int     `yaml:"version"`
	Seed    int64   `yaml:"seed,omitempty"`
	Routes  []Route `yaml:"routes"`
}

// FileRepository reads routes from a YAML fixture file.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository reading path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadRoutes reads and decodes the fixture file.
func (r *FileRepository) LoadRoutes(_ context.Context) ([]Route, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read route file: %w", err)
	}
	return DecodeFixture(data)
}

// DecodeFixture parses a YAML fixture document.
func DecodeFixture(data []byte) ([]Route, error) {
	var f FixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse route file: %w", err)
	}
	return f.Routes, nil
}

// EncodeFixture renders routes as a YAML fixture document.
func EncodeFixture(f FixtureFile) ([]byte, error) {
	if f.Version == 0 {
		f.Version = 1
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode route file: %w", err)
	}
	return data, nil
}

// Ensure repositories implement Repository interface.
var (
	_ Repository = (*StaticRepository)(nil)
	_ Repository = (*FileRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
