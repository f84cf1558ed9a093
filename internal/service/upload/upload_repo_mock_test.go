package upload

import (
	"context"
	"sync"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

var _ uploadRepo = &uploadRepoMock{}

type uploadRepoMock struct {
	CreateFunc  func(ctx context.Context, u domain.Upload) (domain.Upload, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Upload, error)
	ListFunc    func(ctx context.Context, taskID string) ([]domain.Upload, error)
	RemoveFunc  func(ctx context.Context, id string) error

	calls struct {
		Create []struct {
			Ctx context.Context
			U   domain.Upload
		}
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		List []struct {
			Ctx    context.Context
			TaskID string
		}
		Remove []struct {
			Ctx context.Context
			ID  string
		}
	}
	lockCreate  sync.RWMutex
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
	lockRemove  sync.RWMutex
}

func (mock *uploadRepoMock) Create(ctx context.Context, u domain.Upload) (domain.Upload, error) {
	if mock.CreateFunc == nil {
		panic("uploadRepoMock.CreateFunc: method is nil but uploadRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		U   domain.Upload
	}{
		Ctx: ctx,
		U:   u,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, u)
}

func (mock *uploadRepoMock) CreateCalls() []struct {
	Ctx context.Context
	U   domain.Upload
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *uploadRepoMock) GetByID(ctx context.Context, id string) (domain.Upload, error) {
	if mock.GetByIDFunc == nil {
		panic("uploadRepoMock.GetByIDFunc: method is nil but uploadRepo.GetByID was just called")
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

func (mock *uploadRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *uploadRepoMock) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	if mock.ListFunc == nil {
		panic("uploadRepoMock.ListFunc: method is nil but uploadRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TaskID string
	}{
		Ctx:    ctx,
		TaskID: taskID,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, taskID)
}

func (mock *uploadRepoMock) ListCalls() []struct {
	Ctx    context.Context
	TaskID string
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *uploadRepoMock) Remove(ctx context.Context, id string) error {
	if mock.RemoveFunc == nil {
		panic("uploadRepoMock.RemoveFunc: method is nil but uploadRepo.Remove was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockRemove.Lock()
	mock.calls.Remove = append(mock.calls.Remove, callInfo)
	mock.lockRemove.Unlock()
	return mock.RemoveFunc(ctx, id)
}

func (mock *uploadRepoMock) RemoveCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockRemove.RLock()
	calls := mock.calls.Remove
	mock.lockRemove.RUnlock()
	return calls
}
