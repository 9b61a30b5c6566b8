package localfs

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/ports/objectstore"

	"github.com/spf13/afero"
)

var (
	ErrInvalidPath  = errors.New("invalid object path")
	ErrObjectExists = errors.New("object already exists")
)

// Store guarda imágenes en disco bajo root. El router las sirve en /media/.
type Store struct {
	fs        afero.Fs
	root      string
	publicURL string
}

var (
	_ objectstore.Store  = (*Store)(nil)
	_ objectstore.Reader = (*Store)(nil)
)

// New usa el filesystem del SO.
func New(root, publicBaseURL string) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), root, publicBaseURL)
}

// NewWithFs permite inyectar un afero.Fs (p.ej. MemMapFs en tests).
func NewWithFs(fs afero.Fs, root, publicBaseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("localfs: root dir required")
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("localfs: create root: %w", err)
	}
	return &Store{
		fs:        fs,
		root:      root,
		publicURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *Store) Put(ctx context.Context, objectPath string, data []byte, contentType string, upsert bool) error {
	full, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("localfs: mkdir: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := s.fs.OpenFile(full, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return fmt.Errorf("localfs: open: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("localfs: write: %w", err)
	}
	return f.Close()
}

func (s *Store) PublicURL(objectPath string) string {
	return s.publicURL + "/" + cleanObjectPath(objectPath)
}

func (s *Store) Get(ctx context.Context, objectPath string) ([]byte, string, error) {
	full, err := s.resolve(objectPath)
	if err != nil {
		return nil, "", plants.ErrNotFound
	}
	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", plants.ErrNotFound
		}
		return nil, "", err
	}
	return data, mime.TypeByExtension(path.Ext(full)), nil
}

// resolve rechaza paths vacíos o que escapen de root.
func (s *Store) resolve(objectPath string) (string, error) {
	p := cleanObjectPath(objectPath)
	if p == "" || p == "." || strings.HasPrefix(p, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

func cleanObjectPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(p)), "/")
}
