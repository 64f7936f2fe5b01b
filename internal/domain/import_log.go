package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry captures row level issues that occur during an import.
type ImportLogEntry struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	EntityKind     string    `json:"entity_kind"`
	FileName       string    `json:"file_name"`
	RowNumber      *int      `json:"row_number,omitempty"`
	Field          string    `json:"field,omitempty"`
	Code           string    `json:"code,omitempty"`
	ErrorMessage   string    `json:"error_message"`
	CreatedAt      time.Time `json:"created_at"`
}
