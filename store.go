package journalcrop

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ArtifactStore persists region crops by name.
type ArtifactStore interface {
	Save(name string, img image.Image) error
	Remove(name string) error
}

// DirStore writes crops as <dir>/<name>.png.
type DirStore struct {
	dir string
}

// NewDirStore creates a store rooted at dir. The directory is created on first save.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the directory the store writes to.
func (s *DirStore) Dir() string {
	return s.dir
}

// Path returns the file path used for a region name.
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, name+".png")
}

// Save encodes img as PNG, replacing any existing file with the same name.
func (s *DirStore) Save(name string, img image.Image) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create image directory")
	}

	f, err := os.Create(s.Path(name))
	if err != nil {
		return errors.Wrap(err, "failed to create image file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode %s", name)
	}
	return errors.Wrap(f.Close(), "failed to close image file")
}

// Remove deletes the file for a region name. A missing file is not an error.
func (s *DirStore) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %s", name)
	}
	return nil
}
