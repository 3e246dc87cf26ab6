package api

import (
	"net/http"

	"github.com/dgallion1/textwash/internal/session"
)

// handleSession upgrades the request and hands the connection to a live
// highlight session. Run blocks until the client disconnects.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an error response.
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	session.New(conn, s.svc, s.log, s.cfg.DebounceWindow, s.cfg.MaxMarkupBytes).Run()
}
