// Package app is the presentation layer: the single-screen HTML page and
// the JSON API it talks to.
package app

import (
	"net/http"

	"github.com/klabast/wb-services/countdown/internal/clock"
	"github.com/klabast/wb-services/countdown/internal/countdown"
)

// Server wires the event list model to the HTTP surface. It replaces the
// screen-scoped mutable state of the original with one explicit owner.
type Server struct {
	model *countdown.Model
	clock clock.Clock

	indexHTML []byte

	authUser string
	authHash []byte
}

// NewServer returns a server rendering indexHTML and evaluating the
// projection at clk's current instant on every request.
func NewServer(model *countdown.Model, clk clock.Clock, indexHTML []byte) *Server {
	return &Server{
		model:     model,
		clock:     clk,
		indexHTML: indexHTML,
	}
}

// Routes registers all handlers on mux. Mutating endpoints go through
// basic auth when credentials are loaded.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.ServeIndex)
	mux.HandleFunc("/api/events", s.HandleEvents)
	mux.HandleFunc("/api/events/add", s.RequireAuth(s.AddEvent))
	mux.HandleFunc("/api/events/delete", s.RequireAuth(s.DeleteEvent))
	mux.HandleFunc("/api/download", s.HandleDownload)
}
