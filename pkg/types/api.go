package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not ready
	Error string `json:"error" example:"model not ready"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// ClassifyResponse is returned by POST /api/classify.
type ClassifyResponse struct {
	// Top-K predictions ordered by descending probability.
	Predictions []Prediction `json:"predictions"`
	// Identifier of the model that produced the predictions.
	// example: mobilenet_v2_1.0_224
	Model string `json:"model" example:"mobilenet_v2_1.0_224"`
	// Wall time spent decoding and classifying, in milliseconds.
	// example: 37
	DurationMS int64 `json:"duration_ms" example:"37"`
}

// SessionResponse is returned by GET /api/session.
type SessionResponse struct {
	// Session identifier (also stored in the visiond_session cookie).
	// example: 5f0c3c1e-6c8e-4b53-a7a4-6a0f3d1c2b9e
	ID string `json:"id" example:"5f0c3c1e-6c8e-4b53-a7a4-6a0f3d1c2b9e"`
	// True when an image has been uploaded in this session.
	// example: true
	HasImage bool `json:"has_image" example:"true"`
	// True while a classification for this session is running.
	// example: false
	Loading bool `json:"loading" example:"false"`
	// Latest applied predictions.
	Predictions []Prediction `json:"predictions"`
	// Token of the most recent upload.
	// example: 3
	Token uint64 `json:"token" example:"3"`
	// Last classification error, cleared on the next success.
	LastError string `json:"last_error,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	// Model lifecycle state: loading, ready or error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Load progress as an integer percentage.
	// example: 100
	Progress int `json:"progress" example:"100"`
	// True once the model handle is available.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// True while the model is loading.
	// example: false
	Loading bool `json:"loading" example:"false"`
	// Model identifier derived from version, width multiplier and input size.
	// example: mobilenet_v2_1.0_224
	Model string `json:"model" example:"mobilenet_v2_1.0_224"`
	// Number of labels the model can produce.
	// example: 1001
	Labels int `json:"labels,omitempty" example:"1001"`
	// Model load error, if any.
	Error string `json:"error,omitempty"`
	// Number of live sessions.
	// example: 2
	Sessions int `json:"sessions" example:"2"`
	// Completed classifications since start.
	// example: 12
	ClassificationsTotal uint64 `json:"classifications_total" example:"12"`
	// Failed classifications since start.
	// example: 1
	FailuresTotal uint64 `json:"failures_total" example:"1"`
	// Results dropped because a newer upload superseded them.
	// example: 0
	SupersededTotal uint64 `json:"superseded_total" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
