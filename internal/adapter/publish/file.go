package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterg4059/savannah-restaurant-map/internal/atomicfile"
	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// FilePublisher writes artifacts into a local directory.
type FilePublisher struct {
	dir string
}

// NewFilePublisher creates a publisher rooted at dir.
func NewFilePublisher(dir string) *FilePublisher {
	return &FilePublisher{dir: dir}
}

// Name implements pipeline.Publisher.
func (p *FilePublisher) Name() string { return "file" }

// Publish atomically replaces dir/<artifact name>.
func (p *FilePublisher) Publish(_ context.Context, a domain.Artifact) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(p.dir, a.Name)
	if err := atomicfile.Write(path, a.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
