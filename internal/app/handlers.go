package app

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/klabast/wb-services/countdown/internal/event"
)

// ServeIndex serves the single-screen HTML.
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.indexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// eventView is one projected row as rendered by the page.
type eventView struct {
	Name            string `json:"name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Parsed          bool   `json:"parsed"`
	Finished        bool   `json:"finished"`
	RemainingMillis int64  `json:"remaining_ms"`
	Days            int64  `json:"days"`
	Hours           int64  `json:"hours"`
	Minutes         int64  `json:"minutes"`
}

type eventsResponse struct {
	Now    int64       `json:"now"`
	Events []eventView `json:"events"`
}

// HandleEvents returns the visible projection evaluated at the current
// clock instant. "Now" is sampled per request, so the countdown is only as
// live as the page's fetches.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	now := s.clock.Now()
	entries := s.model.Visible(now)

	resp := eventsResponse{
		Now:    now.UnixMilli(),
		Events: make([]eventView, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Events = append(resp.Events, eventView{
			Name:            e.Record.Name,
			Date:            e.Record.Date,
			Time:            e.Record.Time,
			Parsed:          e.Parsed,
			Finished:        e.Finished,
			RemainingMillis: e.RemainingMillis,
			Days:            e.Days,
			Hours:           e.Hours,
			Minutes:         e.Minutes,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding events: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// AddEvent appends a new event from the form fields. Blank fields make it
// a silent no-op reported as "ignored" so the page knows not to clear the
// form.
func (s *Server) AddEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.model.Add(r.Context(), req.Name, req.Date, req.Time) {
		writeStatus(w, "ignored")
		return
	}
	writeStatus(w, "ok")
}

// DeleteEvent removes the first stored event matching the given triple by
// value.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := event.Record{Name: req.Name, Date: req.Date, Time: req.Time}
	if !s.model.Delete(r.Context(), rec) {
		writeStatus(w, "not_found")
		return
	}
	writeStatus(w, "ok")
}
