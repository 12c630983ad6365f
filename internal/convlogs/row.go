package convlogs

import (
	"time"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// unknownTime is rendered for log entries written without a timestamp.
const unknownTime = "Unknown time"

// Row is the log-viewer projection of a conversation log entry. The
// timestamp is preformatted so a missing value renders as a literal
// placeholder instead of the zero time.
type Row struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// NewRow projects one log entry into its viewer row.
func NewRow(l *models.ConversationLog) Row {
	row := Row{
		ID:        l.ID,
		Prompt:    l.Prompt,
		Response:  l.Response,
		Timestamp: unknownTime,
	}
	if !l.Timestamp.IsZero() {
		row.Timestamp = l.Timestamp.UTC().Format(time.RFC3339)
	}
	return row
}

// NewRows projects a log slice, preserving order.
func NewRows(logs []*models.ConversationLog) []Row {
	rows := make([]Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, NewRow(l))
	}
	return rows
}
