package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/highlight"
	"github.com/dgallion1/textwash/internal/options"
)

type markupRequest struct {
	HTML    string           `json:"html"`
	Options *options.Options `json:"options"`
}

// decodeMarkupRequest reads a sanitize/highlight request body. A missing
// options object falls back to the default flag set.
func (s *Server) decodeMarkupRequest(w http.ResponseWriter, r *http.Request) (markupRequest, options.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxMarkupBytes)

	var req markupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		}
		return markupRequest{}, options.Options{}, false
	}

	opts := options.Defaults()
	if req.Options != nil {
		opts = *req.Options
	}
	return req, opts, true
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	req, opts, ok := s.decodeMarkupRequest(w, r)
	if !ok {
		return
	}

	out, err := s.svc.Sanitize(req.HTML, opts)
	if err != nil {
		jsonError(w, "sanitize: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"html": out})
}

// handleHighlight is the one-shot, non-session variant of the overlay:
// mark every flagged character in the supplied markup and return it.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	req, _, ok := s.decodeMarkupRequest(w, r)
	if !ok {
		return
	}

	root, err := doctree.ParseBody(req.HTML)
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	highlight.Mark(root)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"html": doctree.Render(root)})
}
