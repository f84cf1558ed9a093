package fallback

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// Baseline is the set of representative records a dataset starts with.
type Baseline struct {
	Accounts      []domain.Account
	Tasks         []domain.Task
	Reports       []domain.Report
	Verifications []domain.Verification
	Uploads       []domain.Upload
}

// PasswordHasher turns a seed password into the stored hash.
type PasswordHasher func(password string) (string, error)

type seedFile struct {
	Accounts []struct {
		ID        string    `yaml:"id"`
		Email     string    `yaml:"email"`
		Name      string    `yaml:"name"`
		Role      string    `yaml:"role"`
		Agency    string    `yaml:"agency"`
		Password  string    `yaml:"password"`
		CreatedAt time.Time `yaml:"created_at"`
	} `yaml:"accounts"`
	Tasks []struct {
		ID          string     `yaml:"id"`
		Title       string     `yaml:"title"`
		Komoditas   string     `yaml:"komoditas"`
		Lokasi      string     `yaml:"lokasi"`
		KuotaTarget float64    `yaml:"kuota_target"`
		AssigneeID  string     `yaml:"assignee_id"`
		Status      string     `yaml:"status"`
		DueAt       *time.Time `yaml:"due_at"`
		CreatedAt   time.Time  `yaml:"created_at"`
	} `yaml:"tasks"`
	Reports []struct {
		ID               string    `yaml:"id"`
		TaskID           string    `yaml:"task_id"`
		ReporterID       string    `yaml:"reporter_id"`
		Komoditas        string    `yaml:"komoditas"`
		KuotaTersalurkan float64   `yaml:"kuota_tersalurkan"`
		Lokasi           string    `yaml:"lokasi"`
		Catatan          string    `yaml:"catatan"`
		Status           string    `yaml:"status"`
		CreatedAt        time.Time `yaml:"created_at"`
	} `yaml:"reports"`
	Verifications []struct {
		ID         string    `yaml:"id"`
		ReportID   string    `yaml:"report_id"`
		VerifierID string    `yaml:"verifier_id"`
		Verdict    string    `yaml:"verdict"`
		Catatan    string    `yaml:"catatan"`
		CreatedAt  time.Time `yaml:"created_at"`
	} `yaml:"verifications"`
	Uploads []struct {
		ID          string    `yaml:"id"`
		TaskID      string    `yaml:"task_id"`
		UploaderID  string    `yaml:"uploader_id"`
		FileName    string    `yaml:"file_name"`
		ContentType string    `yaml:"content_type"`
		SizeBytes   int64     `yaml:"size_bytes"`
		RowCount    int       `yaml:"row_count"`
		CreatedAt   time.Time `yaml:"created_at"`
	} `yaml:"uploads"`
}

// LoadBaseline parses the embedded seed file. Seed passwords are hashed
// with hash so that fallback logins verify the same way primary ones do.
func LoadBaseline(hash PasswordHasher) (Baseline, error) {
	return parseBaseline(seedYAML, hash)
}

func parseBaseline(raw []byte, hash PasswordHasher) (Baseline, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Baseline{}, fmt.Errorf("parse seed: %w", err)
	}

	var b Baseline
	for _, a := range f.Accounts {
		pw, err := hash(a.Password)
		if err != nil {
			return Baseline{}, fmt.Errorf("hash seed password for %s: %w", a.Email, err)
		}
		b.Accounts = append(b.Accounts, domain.Account{
			ID:           a.ID,
			Email:        domain.NormalizeEmail(a.Email),
			Name:         a.Name,
			Role:         domain.Role(a.Role),
			Agency:       a.Agency,
			PasswordHash: pw,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.CreatedAt,
		})
	}
	for _, t := range f.Tasks {
		b.Tasks = append(b.Tasks, domain.Task{
			ID:          t.ID,
			Title:       t.Title,
			Komoditas:   t.Komoditas,
			Lokasi:      t.Lokasi,
			KuotaTarget: t.KuotaTarget,
			AssigneeID:  t.AssigneeID,
			Status:      domain.TaskStatus(t.Status),
			DueAt:       t.DueAt,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.CreatedAt,
		})
	}
	for _, r := range f.Reports {
		b.Reports = append(b.Reports, domain.Report{
			ID:               r.ID,
			TaskID:           r.TaskID,
			ReporterID:       r.ReporterID,
			Komoditas:        r.Komoditas,
			KuotaTersalurkan: r.KuotaTersalurkan,
			Lokasi:           r.Lokasi,
			Catatan:          r.Catatan,
			Status:           domain.ReportStatus(r.Status),
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.CreatedAt,
		})
	}
	for _, v := range f.Verifications {
		b.Verifications = append(b.Verifications, domain.Verification{
			ID:         v.ID,
			ReportID:   v.ReportID,
			VerifierID: v.VerifierID,
			Verdict:    domain.Verdict(v.Verdict),
			Catatan:    v.Catatan,
			CreatedAt:  v.CreatedAt,
		})
	}
	for _, u := range f.Uploads {
		b.Uploads = append(b.Uploads, domain.Upload{
			ID:          u.ID,
			TaskID:      u.TaskID,
			UploaderID:  u.UploaderID,
			FileName:    u.FileName,
			ContentType: u.ContentType,
			SizeBytes:   u.SizeBytes,
			RowCount:    u.RowCount,
			CreatedAt:   u.CreatedAt,
		})
	}
	return b, nil
}
