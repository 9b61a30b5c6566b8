package objectstore

import "context"

// Store guarda objetos binarios bajo un path y expone su URL pública.
type Store interface {
	// Put sube data a path. Con upsert=true pisa el objeto si ya existe.
	Put(ctx context.Context, path string, data []byte, contentType string, upsert bool) error
	PublicURL(path string) string
}

// Reader lo implementan los stores que el propio servicio sirve (memoria, disco local).
type Reader interface {
	Get(ctx context.Context, path string) (data []byte, contentType string, err error)
}
