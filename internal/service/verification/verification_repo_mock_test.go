package verification

import (
	"context"
	"sync"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

var _ verificationRepo = &verificationRepoMock{}

type verificationRepoMock struct {
	CreateFunc  func(ctx context.Context, v domain.Verification) (domain.Verification, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Verification, error)
	ListFunc    func(ctx context.Context, reportID string) ([]domain.Verification, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			V   domain.Verification
		}
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		List []struct {
			Ctx      context.Context
			ReportID string
		}
	}
	lockCreate  sync.RWMutex
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
}

func (mock *verificationRepoMock) Create(ctx context.Context, v domain.Verification) (domain.Verification, error) {
	if mock.CreateFunc == nil {
		panic("verificationRepoMock.CreateFunc: method is nil but verificationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		V   domain.Verification
	}{
		Ctx: ctx,
		V:   v,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, v)
}

func (mock *verificationRepoMock) CreateCalls() []struct {
	Ctx context.Context
	V   domain.Verification
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *verificationRepoMock) GetByID(ctx context.Context, id string) (domain.Verification, error) {
	if mock.GetByIDFunc == nil {
		panic("verificationRepoMock.GetByIDFunc: method is nil but verificationRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *verificationRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *verificationRepoMock) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	if mock.ListFunc == nil {
		panic("verificationRepoMock.ListFunc: method is nil but verificationRepo.List was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ReportID string
	}{
		Ctx:      ctx,
		ReportID: reportID,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, reportID)
}

func (mock *verificationRepoMock) ListCalls() []struct {
	Ctx      context.Context
	ReportID string
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
