package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every API call answers with.
type Response struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ImportResult reports how many rows a bulk import wrote and skipped.
type ImportResult struct {
	ImportedCount int `json:"importedCount"`
	SkippedCount  int `json:"skippedCount"`
}
