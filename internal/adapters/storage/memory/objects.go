package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/ports/objectstore"
)

var ErrObjectExists = errors.New("object already exists")

type object struct {
	data        []byte
	contentType string
}

// ObjectStore guarda imágenes en memoria; el router las sirve bajo /media/.
type ObjectStore struct {
	mu        sync.RWMutex
	objects   map[string]object
	publicURL string
}

var (
	_ objectstore.Store  = (*ObjectStore)(nil)
	_ objectstore.Reader = (*ObjectStore)(nil)
)

// NewObjectStore: publicBaseURL es el prefijo de las URLs (p.ej. http://host/media).
func NewObjectStore(publicBaseURL string) *ObjectStore {
	return &ObjectStore{
		objects:   map[string]object{},
		publicURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *ObjectStore) Put(ctx context.Context, path string, data []byte, contentType string, upsert bool) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return errors.New("object path required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[path]; exists && !upsert {
		return ErrObjectExists
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[path] = object{data: buf, contentType: contentType}
	return nil
}

func (s *ObjectStore) PublicURL(path string) string {
	return s.publicURL + "/" + strings.Trim(path, "/")
}

func (s *ObjectStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[strings.Trim(path, "/")]
	if !ok {
		return nil, "", plants.ErrNotFound
	}
	return o.data, o.contentType, nil
}

// Len devuelve cuántos objetos hay guardados.
func (s *ObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
