package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/klabast/wb-services/countdown/internal/event"
)

const (
	icsProductID = "-//Klabast//EventCountdown//EN"

	// Exported events get a nominal one-hour slot; the records themselves
	// only carry a start instant.
	exportEventDuration = time.Hour
)

// HandleDownload exports the full stored collection in ICS, CSV or JSON
// format. Records hidden by the 24h display filter are still exported.
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	records := s.model.Events()

	switch r.URL.Query().Get("format") {
	case "ics":
		s.GenerateICS(w, records)
	case "csv":
		GenerateCSV(w, records)
	case "json":
		s.GenerateJSON(w, records)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// GenerateICS builds an iCalendar file with one timed event per record.
// Records whose date/time cannot be parsed are skipped.
func (s *Server) GenerateICS(w http.ResponseWriter, records []event.Record) {
	now := s.clock.Now()

	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("Event Countdown")

	for _, rec := range records {
		start, err := rec.StartTime(s.model.Location())
		if err != nil {
			continue
		}

		// UID must be stable across exports for the same record.
		uid := fmt.Sprintf("%s-%s-%s@countdown.local",
			rec.Date, rec.Time, strings.ReplaceAll(rec.Name, " ", "_"))

		e := cal.AddEvent(uid)
		e.SetDtStampTime(now)
		e.SetStartAt(start)
		e.SetEndAt(start.Add(exportEventDuration))
		e.SetSummary(rec.Name)
		e.SetDescription(fmt.Sprintf("%s on %s at %s", rec.Name, rec.Date, rec.Time))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=events.ics")
	if err := cal.SerializeTo(w); err != nil {
		log.Printf("Error writing ICS export: %v", err)
	}
}

// GenerateCSV writes the records as CSV, one row per event.
func GenerateCSV(w http.ResponseWriter, records []event.Record) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=events.csv")

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Date", "Time"}); err != nil {
		log.Printf("Error writing CSV header: %v", err)
		return
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Name, rec.Date, rec.Time}); err != nil {
			log.Printf("Error writing CSV row: %v", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("Error flushing CSV export: %v", err)
	}
}

// GenerateJSON writes the records as a JSON document.
func (s *Server) GenerateJSON(w http.ResponseWriter, records []event.Record) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=events.json")

	data := map[string]interface{}{
		"generated_at": s.clock.Now().UnixMilli(),
		"events":       records,
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}
