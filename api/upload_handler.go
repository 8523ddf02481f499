package api

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/services"
)

const maxUploadSize = 32 << 20 // 32MB

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     services.UploadStore
}

func newUploadHandler(store services.UploadStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// upload stores a binary asset for an authenticated subject and returns its
// reference URL.
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxSubject(r.Context()).Anonymous() {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no file uploaded"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no file uploaded"))
			return
		}
		defer file.Close()

		if h.store == nil {
			h.responder.WriteError(w, errs.NewInternalError("upload store not configured"))
			return
		}

		key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(header.Filename))
		url, err := h.store.Put(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("upload failed", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"url": url})
	}
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	return strings.ReplaceAll(name, " ", "-")
}
