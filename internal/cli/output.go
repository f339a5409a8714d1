package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Session:
		o.printSession(v)
	case CreateSessionResult:
		o.printCreateSessionResult(v)
	case StatusRequest:
		o.printStatusRequest(v)
	case SubmitStatusResult:
		o.printStatusRequest(v.Request)
	case []PendingRequest:
		o.printPendingRequests(v)
	case Match:
		o.printMatch(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"display_name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	RestExpiresAt *time.Time `json:"rest_expires_at,omitempty"`
}

// Session response type
type Session struct {
	ShareCode string   `json:"share_code"`
	Status    string   `json:"status"`
	Players   []Player `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSessionResult combines session and organizer
type CreateSessionResult struct {
	Session   Session `json:"session"`
	Organizer Player  `json:"organizer"`
}

// StatusRequest response type
type StatusRequest struct {
	ID          string      `json:"id"`
	Action      string      `json:"action"`
	Origin      string      `json:"origin"`
	Reason      string      `json:"reason,omitempty"`
	RequestedAt time.Time   `json:"requested_at"`
	Resolution  *Resolution `json:"resolution,omitempty"`
}

// Resolution response type
type Resolution struct {
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// SubmitStatusResult wraps a created status request
type SubmitStatusResult struct {
	Request StatusRequest `json:"request"`
}

// PendingRequest response type
type PendingRequest struct {
	Player  Player        `json:"player"`
	Request StatusRequest `json:"request"`
}

// Match response type
type Match struct {
	ID          string     `json:"id"`
	ShareCode   string     `json:"share_code"`
	Status      string     `json:"status"`
	Players     []string   `json:"players"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Role: %s\n", p.Role)
	fmt.Printf("Status: %s\n", p.Status)
	if p.RestExpiresAt != nil {
		fmt.Printf("Rest Expires: %s\n", p.RestExpiresAt.Format(time.RFC3339))
	}
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ShareCode)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		organizerStr := ""
		if p.Role == "organizer" {
			organizerStr = " [organizer]"
		}
		fmt.Printf("  - %s (%s) - %s%s\n", p.DisplayName, p.ID, p.Status, organizerStr)
	}
}

func (o *Output) printCreateSessionResult(r CreateSessionResult) {
	o.printSession(r.Session)
	fmt.Printf("Your player id: %s\n", r.Organizer.ID)
}

func (o *Output) printStatusRequest(r StatusRequest) {
	fmt.Printf("Request: %s\n", r.ID)
	fmt.Printf("Action: %s\n", r.Action)
	fmt.Printf("Origin: %s\n", r.Origin)
	if r.Reason != "" {
		fmt.Printf("Reason: %s\n", r.Reason)
	}
	if r.Resolution != nil {
		fmt.Printf("Outcome: %s\n", r.Resolution.Outcome)
		if r.Resolution.Reason != "" {
			fmt.Printf("Resolution Reason: %s\n", r.Resolution.Reason)
		}
	} else {
		fmt.Println("Outcome: pending")
	}
}

func (o *Output) printPendingRequests(pending []PendingRequest) {
	if len(pending) == 0 {
		fmt.Println("No pending requests")
		return
	}
	fmt.Printf("Pending requests (%d):\n", len(pending))
	for _, p := range pending {
		fmt.Printf("  - %s wants to %s (request %s)\n", p.Player.DisplayName, p.Request.Action, p.Request.ID)
		if p.Request.Reason != "" {
			fmt.Printf("    Reason: %s\n", p.Request.Reason)
		}
	}
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Session: %s\n", m.ShareCode)
	fmt.Printf("Status: %s\n", m.Status)
	fmt.Printf("Players: %d\n", len(m.Players))
	for _, pid := range m.Players {
		fmt.Printf("  - %s\n", pid)
	}
	if m.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", m.CompletedAt.Format(time.RFC3339))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
