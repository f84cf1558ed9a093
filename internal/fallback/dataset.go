package fallback

import (
	"fmt"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Dataset groups the fallback tables of every entity together with the
// authentication directory they project into.
type Dataset struct {
	Accounts      *Table[domain.Account]
	Directory     *Directory
	Tasks         *Table[domain.Task]
	Reports       *Table[domain.Report]
	Verifications *Table[domain.Verification]
	Uploads       *Table[domain.Upload]
}

// NewDataset creates empty tables.
func NewDataset() *Dataset {
	return &Dataset{
		Accounts: NewTable("account", func(a domain.Account) string { return a.ID },
			WithUnique("email", func(a domain.Account) string { return domain.NormalizeEmail(a.Email) }),
		),
		Directory:     NewDirectory(),
		Tasks:         NewTable("task", func(t domain.Task) string { return t.ID }),
		Reports:       NewTable("report", func(r domain.Report) string { return r.ID }),
		Verifications: NewTable("verification", func(v domain.Verification) string { return v.ID }),
		Uploads:       NewTable("upload", func(u domain.Upload) string { return u.ID }),
	}
}

// Load inserts the baseline records. It is meant to run once at startup,
// before the dataset is shared.
func (d *Dataset) Load(b Baseline) error {
	for _, a := range b.Accounts {
		if _, err := d.Accounts.Create(a); err != nil {
			return fmt.Errorf("seed account: %w", err)
		}
		if err := d.Directory.Register(a.Credential()); err != nil {
			return fmt.Errorf("seed credential: %w", err)
		}
	}
	for _, t := range b.Tasks {
		if _, err := d.Tasks.Create(t); err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
	}
	for _, r := range b.Reports {
		if _, err := d.Reports.Create(r); err != nil {
			return fmt.Errorf("seed report: %w", err)
		}
	}
	for _, v := range b.Verifications {
		if _, err := d.Verifications.Create(v); err != nil {
			return fmt.Errorf("seed verification: %w", err)
		}
	}
	for _, u := range b.Uploads {
		if _, err := d.Uploads.Create(u); err != nil {
			return fmt.Errorf("seed upload: %w", err)
		}
	}
	return nil
}
