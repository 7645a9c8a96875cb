package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/postboard-be/internal/apperr"
	"github.com/isdelr/postboard-be/internal/auth"
	"github.com/isdelr/postboard-be/internal/storage"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20 // 10 MiB

// ImageHandler handles the REST image upload endpoint.
type ImageHandler struct {
	images *storage.ImageStore
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// Upload stores one multipart image and returns its logical path. An oldPath
// form field marks a replaced image for best-effort removal. Uploads without
// a usable image file succeed with "No file provided" so clients can submit
// post updates that keep their current image.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Identity(r.Context()); !ok {
		respondError(w, apperr.Unauthenticated("Not authenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
		return
	}
	defer file.Close()

	path, err := h.images.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			// Non-image uploads are dropped, not failed.
			respondJSON(w, http.StatusOK, map[string]string{"message": "No file provided!"})
			return
		}
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store image")
		respondError(w, apperr.Internal("Failed to store file", err))
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" {
		h.images.Remove(oldPath)
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":  "File stored",
		"filePath": "/" + path,
	})
}
