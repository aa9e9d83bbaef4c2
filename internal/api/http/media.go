package http

import (
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/storage"
)

const maxMediaBytes = 32 << 20

// MediaUploadHandler stores the multipart "file" field under the key that
// follows the mount point.
func MediaUploadHandler(bs storage.BlobStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxMediaBytes)
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key, err := bs.Put(r.Context(), chi.URLParam(r, "*"), f)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("media stored", "key", key)
		writeJSON(w, http.StatusCreated, map[string]string{"key": key, "url": "/media/" + key})
	}
}

// MediaGetHandler streams the blob at whatever follows the mount point.
func MediaGetHandler(bs storage.BlobStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		rc, err := bs.Get(r.Context(), key)
		if err != nil {
			writeError(w, log, err)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	}
}

// MediaDeleteHandler removes the blob at whatever follows the mount point.
func MediaDeleteHandler(bs storage.BlobStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		if err := bs.Delete(r.Context(), key); err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("media deleted", "key", key)
		w.WriteHeader(http.StatusNoContent)
	}
}
