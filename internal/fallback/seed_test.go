package fallback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

func plainHash(pw string) (string, error) { return "hashed:" + pw, nil }

func TestLoadBaseline_Embedded(t *testing.T) {
	t.Parallel()

	b, err := LoadBaseline(plainHash)
	require.NoError(t, err)

	require.Len(t, b.Accounts, 3)
	require.Len(t, b.Tasks, 2)
	require.Len(t, b.Reports, 1)
	require.Len(t, b.Verifications, 1)
	require.Len(t, b.Uploads, 1)

	assert.Equal(t, "hashed:petugas-demak-2025", b.Accounts[0].PasswordHash)
	assert.Equal(t, domain.RolePetugas, b.Accounts[0].Role)
	assert.Equal(t, "Pupuk Urea", b.Reports[0].Komoditas)
	assert.Equal(t, domain.ReportStatusVerified, b.Reports[0].Status)
	require.NotNil(t, b.Tasks[0].DueAt)
	assert.Nil(t, b.Tasks[1].DueAt)
}

func TestLoadBaseline_HashFailure(t *testing.T) {
	t.Parallel()

	_, err := LoadBaseline(func(string) (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
}

func TestParseBaseline_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parseBaseline([]byte("accounts: [unterminated"), plainHash)
	require.Error(t, err)
}

func TestDataset_Load_ExposesBaselineUnmodified(t *testing.T) {
	t.Parallel()

	b, err := LoadBaseline(plainHash)
	require.NoError(t, err)

	d := NewDataset()
	require.NoError(t, d.Load(b))

	assert.Equal(t, b.Accounts, d.Accounts.List(nil))
	assert.Equal(t, b.Tasks, d.Tasks.List(nil))
	assert.Equal(t, b.Reports, d.Reports.List(nil))
	assert.Equal(t, b.Verifications, d.Verifications.List(nil))
	assert.Equal(t, b.Uploads, d.Uploads.List(nil))

	cred, err := d.Directory.Lookup("admin@pantau.go.id")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, cred.Role)
}

func TestDataset_Load_Twice(t *testing.T) {
	t.Parallel()

	b, err := LoadBaseline(plainHash)
	require.NoError(t, err)

	d := NewDataset()
	require.NoError(t, d.Load(b))
	require.ErrorIs(t, d.Load(b), domain.ErrAlreadyExists)
}
