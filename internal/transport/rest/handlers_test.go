package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/account"
	"github.com/heartmarshall/pantau-subsidi/internal/service/report"
	"github.com/heartmarshall/pantau-subsidi/internal/service/task"
	"github.com/heartmarshall/pantau-subsidi/internal/service/upload"
	"github.com/heartmarshall/pantau-subsidi/internal/service/verification"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestReportHandler_Submit_CreatedThenReplayed(t *testing.T) {
	t.Parallel()

	replayed := false
	svc := &reportServiceStub{
		submit: func(ctx context.Context, in report.SubmitInput) (report.SubmitResult, error) {
			res := report.SubmitResult{
				Report:   domain.Report{ID: in.ID, Komoditas: in.Komoditas, KuotaTersalurkan: in.KuotaTersalurkan, Status: domain.ReportStatusSubmitted},
				Replayed: replayed,
			}
			replayed = true
			return res, nil
		},
	}
	h := NewReportHandler(svc, slog.Default())
	body := `{"id":"b9a4c2de-0f6b-4c55-8f9a-7d51e3a0c001","komoditas":"Pupuk Urea","kuotaTersalurkan":85}`

	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got reportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Pupuk Urea", got.Komoditas)
	assert.Equal(t, 85.0, got.KuotaTersalurkan)
	assert.Equal(t, "submitted", got.Status)

	rec = httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportHandler_Submit_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewReportHandler(&reportServiceStub{}, slog.Default())

	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", decodeError(t, rec).Error)
}

func TestReportHandler_Submit_ValidationFields(t *testing.T) {
	t.Parallel()

	svc := &reportServiceStub{
		submit: func(ctx context.Context, in report.SubmitInput) (report.SubmitResult, error) {
			return report.SubmitResult{}, domain.NewValidationError("komoditas", "required")
		},
	}
	h := NewReportHandler(svc, slog.Default())

	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "komoditas", resp.Fields[0].Field)
}

func TestHandleError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "conflict"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			handleError(slog.Default(), rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error)
		})
	}
}

func TestReportHandler_Get_UsesPathValue(t *testing.T) {
	t.Parallel()

	svc := &reportServiceStub{
		get: func(ctx context.Context, id string) (domain.Report, error) {
			if id != "r-42" {
				return domain.Report{}, domain.ErrNotFound
			}
			return domain.Report{ID: id}, nil
		},
	}
	mux := NewRouter(testHandlers(t, svc, &taskServiceStub{}), nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r-42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_CreateRequiresAdmin(t *testing.T) {
	t.Parallel()

	called := false
	svc := &taskServiceStub{
		create: func(ctx context.Context, in task.CreateInput) (task.CreateResult, error) {
			called = true
			return task.CreateResult{Task: domain.Task{ID: "t1", Title: in.Title}}, nil
		},
	}
	h := NewTaskHandler(svc, slog.Default())
	body := `{"title":"Penyaluran Pupuk Urea"}`

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	req = req.WithContext(as(req.Context(), "acc-1", domain.RolePetugas))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	req = req.WithContext(as(req.Context(), "acc-3", domain.RoleAdmin))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, called)
}

func TestTaskHandler_Remove_NoContent(t *testing.T) {
	t.Parallel()

	svc := &taskServiceStub{
		remove: func(ctx context.Context, id string) error { return nil },
	}
	mux := NewRouter(testHandlers(t, &reportServiceStub{}, svc), nil)

	req := httptest.NewRequest(http.MethodDelete, "/tasks/t1", nil)
	req = req.WithContext(as(req.Context(), "acc-3", domain.RoleAdmin))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestVerificationHandler_Create_RoleAndReplay(t *testing.T) {
	t.Parallel()

	svc := &verificationServiceStub{
		create: func(ctx context.Context, in verification.CreateInput) (verification.CreateResult, error) {
			return verification.CreateResult{
				Verification: domain.Verification{ID: in.ID, ReportID: in.ReportID, Verdict: domain.Verdict(in.Verdict)},
				Replayed:     true,
			}, nil
		},
	}
	h := NewVerificationHandler(svc, slog.Default())
	body := `{"id":"c3d9a7e1-4f2b-4a8c-9e6d-0b1a2c3d4e01","reportId":"r1","verdict":"approved"}`

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/verifications", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/verifications", strings.NewReader(body))
	req = req.WithContext(as(req.Context(), "acc-2", domain.RoleVerifikator))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	svc := &uploadServiceStub{
		list: func(ctx context.Context, taskID string) ([]domain.Upload, error) {
			return nil, nil
		},
	}
	h := NewUploadHandler(svc, slog.Default())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/uploads?taskId=t1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	svc := &accountServiceStub{
		login: func(ctx context.Context, in account.LoginInput) (account.AuthResult, error) {
			if in.Password != "petugas-demak-2025" {
				return account.AuthResult{}, domain.ErrUnauthorized
			}
			return account.AuthResult{
				AccessToken: "tok",
				Account:     domain.Account{ID: "acc-1", Email: in.Email, Role: domain.RolePetugas},
			}, nil
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"petugas.demak@pantau.go.id","password":"petugas-demak-2025"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "tok", got.AccessToken)
	assert.Equal(t, "petugas", got.Account.Role)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"petugas.demak@pantau.go.id","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ListAccounts_AdminOnly(t *testing.T) {
	t.Parallel()

	svc := &accountServiceStub{
		list: func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{{ID: "a1", Email: "a@pantau.go.id", Role: domain.RoleAdmin, PasswordHash: "secret"}}, nil
		},
	}
	h := NewAuthHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req = req.WithContext(as(req.Context(), "acc-3", domain.RoleAdmin))
	rec := httptest.NewRecorder()
	h.ListAccounts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func testHandlers(t *testing.T, reports reportService, tasks taskService) Handlers {
	t.Helper()
	return Handlers{
		Health:        NewHealthHandler(&proberMock{up: true}, "test"),
		Auth:          NewAuthHandler(&accountServiceStub{}, slog.Default()),
		Reports:       NewReportHandler(reports, slog.Default()),
		Tasks:         NewTaskHandler(tasks, slog.Default()),
		Verifications: NewVerificationHandler(&verificationServiceStub{}, slog.Default()),
		Uploads:       NewUploadHandler(&uploadServiceStub{}, slog.Default()),
	}
}

func TestNewRouter_UploadRemoveRoute(t *testing.T) {
	t.Parallel()

	var removed string
	h := testHandlers(t, &reportServiceStub{}, &taskServiceStub{})
	h.Uploads = NewUploadHandler(&uploadServiceStub{
		remove: func(ctx context.Context, id string) error { removed = id; return nil },
		create: func(ctx context.Context, in upload.CreateInput) (upload.CreateResult, error) {
			return upload.CreateResult{}, nil
		},
	}, slog.Default())
	mux := NewRouter(h, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/uploads/u-7", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-7", removed)
}
