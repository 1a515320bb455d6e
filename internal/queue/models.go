package queue

// StatusResponse is the shared shape returned by both queue endpoints.
// Position is a pointer so a user who is not waiting can be reported as
// null rather than zero; EstimatedWaitTime is present only while waiting.
type StatusResponse struct {
	InQueue           bool   `json:"in_queue"`
	QueueToken        string `json:"queue_token,omitempty"`
	Position          *int64 `json:"position"`
	Total             int64  `json:"total"`
	EstimatedWaitTime *int64 `json:"estimated_wait_time,omitempty"`
	BatchSize         int    `json:"batch_size"`
	BatchInterval     int    `json:"batch_interval"`
}
