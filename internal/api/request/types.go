package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	DeviceID    string `json:"device_id"`
	DisplayName string `json:"display_name"`
}

// JoinSessionRequest is the request body for joining a session
type JoinSessionRequest struct {
	DeviceID    string `json:"device_id"`
	DisplayName string `json:"display_name"`
}

// SubmitStatusRequest is the request body for a rest/leave request
type SubmitStatusRequest struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
	Reason   string `json:"reason,omitempty"`
}

// ResolveStatusRequest is the request body for approving/denying a request
type ResolveStatusRequest struct {
	DeviceID string `json:"device_id"`
	Approved *bool  `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// CreateMatchRequest is the request body for starting a match
type CreateMatchRequest struct {
	DeviceID  string   `json:"device_id"`
	PlayerIDs []string `json:"player_ids"`
}

// CompleteMatchRequest is the request body for completing a match
type CompleteMatchRequest struct {
	DeviceID string `json:"device_id"`
}
