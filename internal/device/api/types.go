package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// WriteStatus is the outcome of a write as seen by the user.
type WriteStatus string

const (
	StatusCreated  WriteStatus = "created"
	StatusReplayed WriteStatus = "replayed"
	// StatusPending means the write is queued on the device and will be
	// replayed when the API is reachable again.
	StatusPending WriteStatus = "pending"
)

// WriteResult is returned by every write.
type WriteResult struct {
	ID     string          `json:"id"`
	Status WriteStatus     `json:"status"`
	Record json.RawMessage `json:"record,omitempty"`
}

// ReportInput is the body of POST /reports.
type ReportInput struct {
	ID               string  `json:"id"`
	TaskID           string  `json:"taskId,omitempty"`
	Komoditas        string  `json:"komoditas"`
	KuotaTersalurkan float64 `json:"kuotaTersalurkan"`
	Lokasi           string  `json:"lokasi,omitempty"`
	Catatan          string  `json:"catatan,omitempty"`
}

// VerificationInput is the body of POST /verifications.
type VerificationInput struct {
	ID       string `json:"id"`
	ReportID string `json:"reportId"`
	Verdict  string `json:"verdict"`
	Catatan  string `json:"catatan,omitempty"`
}

// UploadInput is the body of POST /uploads.
type UploadInput struct {
	ID          string `json:"id"`
	TaskID      string `json:"taskId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	SizeBytes   int64  `json:"sizeBytes"`
	RowCount    int    `json:"rowCount"`
}

// Report as returned by the API.
type Report struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"taskId,omitempty"`
	ReporterID       string    `json:"reporterId"`
	Komoditas        string    `json:"komoditas"`
	KuotaTersalurkan float64   `json:"kuotaTersalurkan"`
	Lokasi           string    `json:"lokasi,omitempty"`
	Catatan          string    `json:"catatan,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Task as returned by the API.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Komoditas   string     `json:"komoditas,omitempty"`
	Lokasi      string     `json:"lokasi,omitempty"`
	KuotaTarget float64    `json:"kuotaTarget"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ReportsResult is a report listing. FromCache marks a response the cache
// router answered while offline.
type ReportsResult struct {
	Reports   []Report `json:"reports"`
	FromCache bool     `json:"fromCache"`
}

// TasksResult is a task listing. Stale marks tasks read from the device
// mirror or the response cache instead of the API.
type TasksResult struct {
	Tasks     []Task    `json:"tasks"`
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}
