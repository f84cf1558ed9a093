package domain

import "time"

// Upload is the metadata of a file attached to a task. File contents and
// their parsing live outside this system; RowCount is supplied by the caller.
type Upload struct {
	ID          string
	TaskID      string
	UploaderID  string
	FileName    string
	ContentType string
	SizeBytes   int64
	RowCount    int
	CreatedAt   time.Time
}
