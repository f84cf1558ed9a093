package resilient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// proberStub is toggled by tests.
type proberStub struct {
	up    atomic.Bool
	calls atomic.Int32
}

func (p *proberStub) Reachable(context.Context) bool {
	p.calls.Add(1)
	return p.up.Load()
}

type recorderStub struct {
	mu        sync.Mutex
	fallbacks map[string]int
	failures  map[string]int
}

func newRecorderStub() *recorderStub {
	return &recorderStub{fallbacks: map[string]int{}, failures: map[string]int{}}
}

func (r *recorderStub) Fallback(entity, op string) {
	r.mu.Lock()
	r.fallbacks[entity+"."+op]++
	r.mu.Unlock()
}

func (r *recorderStub) PrimaryFailure(entity, op string) {
	r.mu.Lock()
	r.failures[entity+"."+op]++
	r.mu.Unlock()
}

func (r *recorderStub) fallbackCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallbacks[key]
}

func (r *recorderStub) failureCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures[key]
}

// txStub runs fn inline.
type txStub struct{ calls atomic.Int32 }

func (t *txStub) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls.Add(1)
	return fn(ctx)
}

var _ ReportPrimary = &reportPrimaryMock{}

type reportPrimaryMock struct {
	ListFunc         func(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
	GetByIDFunc      func(ctx context.Context, id string) (domain.Report, error)
	CreateFunc       func(ctx context.Context, r domain.Report) (domain.Report, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.ReportStatus, now time.Time) (domain.Report, error)

	createCalls atomic.Int32
}

func (m *reportPrimaryMock) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	if m.ListFunc == nil {
		panic("reportPrimaryMock.ListFunc: method is nil but ReportPrimary.List was just called")
	}
	return m.ListFunc(ctx, filter)
}

func (m *reportPrimaryMock) GetByID(ctx context.Context, id string) (domain.Report, error) {
	if m.GetByIDFunc == nil {
		panic("reportPrimaryMock.GetByIDFunc: method is nil but ReportPrimary.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *reportPrimaryMock) Create(ctx context.Context, r domain.Report) (domain.Report, error) {
	m.createCalls.Add(1)
	if m.CreateFunc == nil {
		panic("reportPrimaryMock.CreateFunc: method is nil but ReportPrimary.Create was just called")
	}
	return m.CreateFunc(ctx, r)
}

func (m *reportPrimaryMock) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, now time.Time) (domain.Report, error) {
	if m.UpdateStatusFunc == nil {
		panic("reportPrimaryMock.UpdateStatusFunc: method is nil but ReportPrimary.UpdateStatus was just called")
	}
	return m.UpdateStatusFunc(ctx, id, status, now)
}

var _ VerificationPrimary = &verificationPrimaryMock{}

type verificationPrimaryMock struct {
	ListFunc    func(ctx context.Context, reportID string) ([]domain.Verification, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Verification, error)
	CreateFunc  func(ctx context.Context, v domain.Verification) (domain.Verification, error)
}

func (m *verificationPrimaryMock) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	if m.ListFunc == nil {
		panic("verificationPrimaryMock.ListFunc: method is nil but VerificationPrimary.List was just called")
	}
	return m.ListFunc(ctx, reportID)
}

func (m *verificationPrimaryMock) GetByID(ctx context.Context, id string) (domain.Verification, error) {
	if m.GetByIDFunc == nil {
		panic("verificationPrimaryMock.GetByIDFunc: method is nil but VerificationPrimary.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *verificationPrimaryMock) Create(ctx context.Context, v domain.Verification) (domain.Verification, error) {
	if m.CreateFunc == nil {
		panic("verificationPrimaryMock.CreateFunc: method is nil but VerificationPrimary.Create was just called")
	}
	return m.CreateFunc(ctx, v)
}

var _ TaskPrimary = &taskPrimaryMock{}

type taskPrimaryMock struct {
	ListFunc    func(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Task, error)
	CreateFunc  func(ctx context.Context, t domain.Task) (domain.Task, error)
	UpdateFunc  func(ctx context.Context, t domain.Task) (domain.Task, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *taskPrimaryMock) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if m.ListFunc == nil {
		panic("taskPrimaryMock.ListFunc: method is nil but TaskPrimary.List was just called")
	}
	return m.ListFunc(ctx, filter)
}

func (m *taskPrimaryMock) GetByID(ctx context.Context, id string) (domain.Task, error) {
	if m.GetByIDFunc == nil {
		panic("taskPrimaryMock.GetByIDFunc: method is nil but TaskPrimary.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *taskPrimaryMock) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if m.CreateFunc == nil {
		panic("taskPrimaryMock.CreateFunc: method is nil but TaskPrimary.Create was just called")
	}
	return m.CreateFunc(ctx, t)
}

func (m *taskPrimaryMock) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	if m.UpdateFunc == nil {
		panic("taskPrimaryMock.UpdateFunc: method is nil but TaskPrimary.Update was just called")
	}
	return m.UpdateFunc(ctx, t)
}

func (m *taskPrimaryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		panic("taskPrimaryMock.DeleteFunc: method is nil but TaskPrimary.Delete was just called")
	}
	return m.DeleteFunc(ctx, id)
}

var _ UploadPrimary = &uploadPrimaryMock{}

type uploadPrimaryMock struct {
	ListFunc    func(ctx context.Context, taskID string) ([]domain.Upload, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Upload, error)
	CreateFunc  func(ctx context.Context, u domain.Upload) (domain.Upload, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *uploadPrimaryMock) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	if m.ListFunc == nil {
		panic("uploadPrimaryMock.ListFunc: method is nil but UploadPrimary.List was just called")
	}
	return m.ListFunc(ctx, taskID)
}

func (m *uploadPrimaryMock) GetByID(ctx context.Context, id string) (domain.Upload, error) {
	if m.GetByIDFunc == nil {
		panic("uploadPrimaryMock.GetByIDFunc: method is nil but UploadPrimary.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *uploadPrimaryMock) Create(ctx context.Context, u domain.Upload) (domain.Upload, error) {
	if m.CreateFunc == nil {
		panic("uploadPrimaryMock.CreateFunc: method is nil but UploadPrimary.Create was just called")
	}
	return m.CreateFunc(ctx, u)
}

func (m *uploadPrimaryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		panic("uploadPrimaryMock.DeleteFunc: method is nil but UploadPrimary.Delete was just called")
	}
	return m.DeleteFunc(ctx, id)
}

var _ AccountPrimary = &accountPrimaryMock{}

type accountPrimaryMock struct {
	ListFunc       func(ctx context.Context) ([]domain.Account, error)
	GetByIDFunc    func(ctx context.Context, id string) (domain.Account, error)
	GetByEmailFunc func(ctx context.Context, email string) (domain.Account, error)
	CreateFunc     func(ctx context.Context, a domain.Account) (domain.Account, error)
}

func (m *accountPrimaryMock) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFunc == nil {
		panic("accountPrimaryMock.ListFunc: method is nil but AccountPrimary.List was just called")
	}
	return m.ListFunc(ctx)
}

func (m *accountPrimaryMock) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountPrimaryMock.GetByIDFunc: method is nil but AccountPrimary.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *accountPrimaryMock) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	if m.GetByEmailFunc == nil {
		panic("accountPrimaryMock.GetByEmailFunc: method is nil but AccountPrimary.GetByEmail was just called")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *accountPrimaryMock) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	if m.CreateFunc == nil {
		panic("accountPrimaryMock.CreateFunc: method is nil but AccountPrimary.Create was just called")
	}
	return m.CreateFunc(ctx, a)
}
