package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klabast/wb-services/countdown/internal/clock"
	"github.com/klabast/wb-services/countdown/internal/countdown"
	"github.com/klabast/wb-services/countdown/internal/storage"
)

// memStore is an in-memory string-set store for handler tests.
type memStore struct {
	sets map[string][]string
}

var _ storage.StringSetStore = (*memStore)(nil)

func newMemStore(members ...string) *memStore {
	m := &memStore{sets: make(map[string][]string)}
	if len(members) > 0 {
		m.sets[storage.EventsKey] = members
	}
	return m
}

func (m *memStore) GetStringSet(_ context.Context, key string) ([]string, error) {
	return append([]string{}, m.sets[key]...), nil
}

func (m *memStore) PutStringSet(_ context.Context, key string, members []string) error {
	seen := make(map[string]bool)
	var set []string
	for _, member := range members {
		if seen[member] {
			continue
		}
		seen[member] = true
		set = append(set, member)
	}
	m.sets[key] = set
	return nil
}

// newTestServer builds a server over an in-memory store seeded with the
// given encoded records, with the clock frozen at now and times read in UTC.
func newTestServer(t *testing.T, now time.Time, members ...string) *Server {
	t.Helper()

	model := countdown.NewModel(newMemStore(members...), time.UTC)
	model.Load(context.Background())

	return NewServer(model, clock.NewFixed(now), []byte("<html>Event Countdown</html>"))
}

func TestServeIndex(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	s.ServeIndex(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Expected Content-Type text/html, got %s", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "Event Countdown") {
		t.Error("Index page missing expected content")
	}
}

func TestServeIndexUnknownPath(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	s.ServeIndex(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Result().StatusCode)
	}
}

func TestHandleEvents(t *testing.T) {
	now := time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC)
	s := newTestServer(t, now,
		"Launch;2025-3-7;9:00",
		"Review;2025-3-10;14:30",
	)

	req := httptest.NewRequest("GET", "/api/events", nil)
	w := httptest.NewRecorder()
	s.HandleEvents(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body eventsResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body.Now != now.UnixMilli() {
		t.Errorf("Now = %d, want %d", body.Now, now.UnixMilli())
	}
	if len(body.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(body.Events))
	}

	first := body.Events[0]
	if first.Name != "Launch" {
		t.Errorf("Expected Launch first, got %s", first.Name)
	}
	if first.RemainingMillis != 86_400_000 {
		t.Errorf("RemainingMillis = %d, want 86400000", first.RemainingMillis)
	}
	if first.Days != 1 || first.Hours != 0 || first.Minutes != 0 {
		t.Errorf("Breakdown = %dd %dh %dm, want 1d 0h 0m", first.Days, first.Hours, first.Minutes)
	}
	if first.Finished {
		t.Error("Future event should not be finished")
	}
}

func TestHandleEventsMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("POST", "/api/events", nil)
	w := httptest.NewRecorder()
	s.HandleEvents(w, req)

	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Result().StatusCode)
	}
}

func TestAddEventEndpoint(t *testing.T) {
	now := time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC)
	s := newTestServer(t, now)

	payload := `{"name":"Launch","date":"2025-3-7","time":"9:00"}`
	req := httptest.NewRequest("POST", "/api/events/add", strings.NewReader(payload))
	w := httptest.NewRecorder()
	s.AddEvent(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected status ok, got %s", w.Body.String())
	}

	// The new event shows up in the projection
	req = httptest.NewRequest("GET", "/api/events", nil)
	w = httptest.NewRecorder()
	s.HandleEvents(w, req)

	var body eventsResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Events) != 1 || body.Events[0].Name != "Launch" {
		t.Errorf("Expected Launch in projection, got %+v", body.Events)
	}
}

func TestAddEventBlankFieldIgnored(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	payload := `{"name":"  ","date":"2025-3-7","time":"9:00"}`
	req := httptest.NewRequest("POST", "/api/events/add", strings.NewReader(payload))
	w := httptest.NewRecorder()
	s.AddEvent(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Result().StatusCode)
	}
	if !strings.Contains(w.Body.String(), `"status":"ignored"`) {
		t.Errorf("Expected status ignored, got %s", w.Body.String())
	}
	if len(s.model.Events()) != 0 {
		t.Error("Blank add should not store anything")
	}
}

func TestAddEventInvalidBody(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("POST", "/api/events/add", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	s.AddEvent(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
	}
}

func TestDeleteEventEndpoint(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC),
		"Launch;2025-3-7;9:00",
	)

	payload := `{"name":"Launch","date":"2025-3-7","time":"9:00"}`
	req := httptest.NewRequest("POST", "/api/events/delete", strings.NewReader(payload))
	w := httptest.NewRecorder()
	s.DeleteEvent(w, req)

	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected status ok, got %s", w.Body.String())
	}
	if len(s.model.Events()) != 0 {
		t.Error("Event should be gone after delete")
	}

	// Deleting again reports not_found
	req = httptest.NewRequest("POST", "/api/events/delete", strings.NewReader(payload))
	w = httptest.NewRecorder()
	s.DeleteEvent(w, req)

	if !strings.Contains(w.Body.String(), `"status":"not_found"`) {
		t.Errorf("Expected status not_found, got %s", w.Body.String())
	}
}

func TestMutationsRequirePost(t *testing.T) {
	s := newTestServer(t, time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))

	for _, handler := range []http.HandlerFunc{s.AddEvent, s.DeleteEvent} {
		req := httptest.NewRequest("GET", "/api/events/add", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		if w.Result().StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Result().StatusCode)
		}
	}
}
