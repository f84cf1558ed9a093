package domain

import "time"

// Task is a distribution assignment given to a field officer.
type Task struct {
	ID          string
	Title       string
	Komoditas   string
	Lokasi      string
	KuotaTarget float64
	AssigneeID  string
	Status      TaskStatus
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	AssigneeID string
	Status     TaskStatus
}

// Matches reports whether t satisfies the filter.
func (f TaskFilter) Matches(t Task) bool {
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// TaskPatch holds optional task field updates. Nil fields are left unchanged.
type TaskPatch struct {
	Title      *string
	AssigneeID *string
	Status     *TaskStatus
	DueAt      *time.Time
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task, now time.Time) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueAt != nil {
		due := *p.DueAt
		t.DueAt = &due
	}
	t.UpdatedAt = now
	return t
}
