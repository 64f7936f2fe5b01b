package importer

import "fmt"

// Error codes surfaced to clients. File level codes abort the whole batch,
// row level codes exclude the row and let the batch continue.
const (
	CodeEmptyFile           = "EMPTY_FILE"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeTooManyRows         = "TOO_MANY_ROWS"
	CodeMissingHeader       = "MISSING_HEADER"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeParseError          = "PARSE_ERROR"
	CodeRequiredField       = "REQUIRED_FIELD"
	CodeInvalidDate         = "INVALID_DATE"
	CodeInvalidNumber       = "INVALID_NUMBER"
	CodeInvalidRange        = "INVALID_RANGE"
	CodeInvalidEnum         = "INVALID_ENUM"
	CodeSKUNotFound         = "SKU_NOT_FOUND"
	CodeSKUInactive         = "SKU_INACTIVE"
	CodeDistributorNotFound = "DISTRIBUTOR_NOT_FOUND"
	CodeDistributorInactive = "DISTRIBUTOR_INACTIVE"
	CodePersistFailed       = "PERSIST_FAILED"
)

// FileError aborts the whole batch before any row reaches the valid set.
type FileError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newFileError(code, format string, args ...any) *FileError {
	return &FileError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RowError describes one failed check on one row. A row with any RowError is
// excluded from the valid set; partial acceptance of a row is not supported.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func rowError(row int, field, code, format string, args ...any) RowError {
	return RowError{
		Row:     row,
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
