package domain

// ReportStatus is the lifecycle state of a field report.
type ReportStatus string

const (
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusVerified  ReportStatus = "verified"
	ReportStatusRejected  ReportStatus = "rejected"
)

func (s ReportStatus) String() string { return string(s) }

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusSubmitted, ReportStatusVerified, ReportStatusRejected:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a distribution task.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Verdict is the outcome of a verification.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
)

func (v Verdict) String() string { return string(v) }

func (v Verdict) IsValid() bool {
	return v == VerdictApproved || v == VerdictRejected
}

// ReportStatus maps a verdict to the status it projects onto the verified report.
func (v Verdict) ReportStatus() ReportStatus {
	if v == VerdictApproved {
		return ReportStatusVerified
	}
	return ReportStatusRejected
}

// Role is the account's role within the program.
type Role string

const (
	RolePetugas     Role = "petugas"     // field officer
	RoleVerifikator Role = "verifikator" // verifier
	RoleAdmin       Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RolePetugas, RoleVerifikator, RoleAdmin:
		return true
	}
	return false
}
