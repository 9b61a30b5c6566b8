package plants

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"ayurveda-repository/internal/ports/objectstore"
)

// Uploader sube imágenes de una planta al object store.
type Uploader struct {
	store objectstore.Store
	now   func() time.Time
}

func NewUploader(store objectstore.Store) *Uploader {
	return &Uploader{
		store: store,
		now:   time.Now,
	}
}

// Upload sube los archivos en orden bajo <recordID>/ y devuelve sus URLs públicas en el mismo orden.
// Corta en el primer fallo; lo ya subido queda en el store (no hay rollback).
func (u *Uploader) Upload(ctx context.Context, recordID string, files []ImageFile) ([]string, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, validationError("upload", "plant id is required")
	}

	stamp := u.now().UnixMilli()
	urls := make([]string, 0, len(files))

	for i, f := range files {
		path := ObjectPath(recordID, stamp, i, f.Name)

		contentType := f.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(f.Name))
		}

		if err := u.store.Put(ctx, path, f.Data, contentType, true); err != nil {
			return urls, backendError("upload", fmt.Sprintf("failed to upload image %q", f.Name), err)
		}
		urls = append(urls, u.store.PublicURL(path))
	}

	return urls, nil
}

// ObjectPath arma <recordID>/<millis>-<i><.ext>. Sin extensión en el nombre del archivo, no lleva sufijo.
func ObjectPath(recordID string, stampMillis int64, index int, fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	return fmt.Sprintf("%s/%d-%d%s", recordID, stampMillis, index, ext)
}
