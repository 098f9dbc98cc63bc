package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/docoutline/internal/collector"
)

// handleOutline extracts an uploaded PDF synchronously. Nothing is stored.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if !validFormat(format) {
		jsonError(w, "format must be json, markdown or html", http.StatusBadRequest)
		return
	}
	if !s.parseForm(w, r, 1) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, fh, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	filename, data, err := s.readUpload(fh)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	ext, err := s.orchestrator.Extractor().ExtractBytes(r.Context(), filename, data)
	if err != nil {
		var rerr *collector.DocumentReadError
		if errors.As(err, &rerr) {
			jsonError(w, rerr.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("extraction failed", "filename", filename, "error", err)
		jsonError(w, "extraction failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeResult(w, ext.Result, format)
}
