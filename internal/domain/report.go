package domain

import "time"

// Report is a field report on a subsidy distribution.
type Report struct {
	ID               string
	TaskID           string
	ReporterID       string
	Komoditas        string
	KuotaTersalurkan float64
	Lokasi           string
	Catatan          string
	Status           ReportStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReportFilter narrows a report listing. Zero values match everything.
type ReportFilter struct {
	TaskID     string
	ReporterID string
	Status     ReportStatus
}

// Matches reports whether r satisfies the filter.
func (f ReportFilter) Matches(r Report) bool {
	if f.TaskID != "" && r.TaskID != f.TaskID {
		return false
	}
	if f.ReporterID != "" && r.ReporterID != f.ReporterID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
