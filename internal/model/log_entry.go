// internal/model/log_entry.go
package model

// Log entry types shown by the polling client.
const (
    LogInfo    = "info"
    LogSuccess = "success"
    LogError   = "error"
)

// LogEntry is one line of campaign history. Seq is monotonic so consumers
// polling the API can dedup and order entries on their side.
type LogEntry struct {
    Seq       int64  `json:"id"`
    Timestamp string `json:"timestamp"`
    Message   string `json:"message"`
    Type      string `json:"type"` // info, success, error
}
