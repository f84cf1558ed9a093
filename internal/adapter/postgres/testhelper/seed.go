//go:build integration

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount inserts a petugas account with a unique email.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) domain.Account {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	acc := domain.Account{
		ID:           uuid.NewString(),
		Email:        "petugas-" + uniqueSuffix() + "@pantau.go.id",
		Name:         "Petugas Uji",
		Role:         domain.RolePetugas,
		Agency:       "Dinas Pertanian",
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashte",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO accounts (id, email, name, role, agency, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		acc.ID, acc.Email, acc.Name, string(acc.Role), acc.Agency, acc.PasswordHash, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount: %v", err)
	}

	return acc
}

// SeedReport inserts a submitted report.
func SeedReport(t *testing.T, pool *pgxpool.Pool) domain.Report {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r := domain.Report{
		ID:               uuid.NewString(),
		Komoditas:        "Pupuk Urea " + uniqueSuffix(),
		KuotaTersalurkan: 85,
		Lokasi:           "Demak",
		Status:           domain.ReportStatusSubmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO reports (id, task_id, reporter_id, komoditas, kuota_tersalurkan, lokasi, catatan, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.TaskID, r.ReporterID, r.Komoditas, r.KuotaTersalurkan, r.Lokasi, r.Catatan, string(r.Status), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReport: %v", err)
	}

	return r
}
