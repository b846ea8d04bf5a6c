package app

import (
	"encoding/json"
	"log"
	"net/http"
)

// RequireMethod validates that the request uses the specified HTTP method.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeStatus writes the small {"status": ...} responses used by the
// mutation endpoints.
func writeStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
