package domain

import "time"

// Abort reasons recorded in DrainStats.
const (
	AbortNone           = ""
	AbortLineTooLong    = "line_too_long"
	AbortUnknownCommand = "unknown_command"
	AbortRedirect       = "redirect"
	AbortReadError      = "read_error"
	AbortCanceled       = "canceled"
)

// DrainStats summarizes one pass over the current-work file.
type DrainStats struct {
	ID         string    `json:"id"`
	QueuePath  string    `json:"queue_path"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Lines      int       `json:"lines"`
	Executed   int       `json:"executed"`
	Skipped    int       `json:"skipped"`
	Aborted    string    `json:"aborted,omitempty"`
}

// Duration returns the wall time of the drain.
func (s DrainStats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Completed reports whether the drain reached the end of the file.
func (s DrainStats) Completed() bool {
	return s.Aborted == AbortNone
}
