package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the response wrapper for successful calls
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JSON writes a success envelope with the given payload
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}
