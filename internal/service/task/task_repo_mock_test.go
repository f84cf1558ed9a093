package task

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

var _ taskRepo = &taskRepoMock{}

type taskRepoMock struct {
	CreateFunc  func(ctx context.Context, t domain.Task) (domain.Task, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Task, error)
	ListFunc    func(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	RemoveFunc  func(ctx context.Context, id string) error
	UpdateFunc  func(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			T   domain.Task
		}
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		List []struct {
			Ctx    context.Context
			Filter domain.TaskFilter
		}
		Remove []struct {
			Ctx context.Context
			ID  string
		}
		Update []struct {
			Ctx   context.Context
			ID    string
			Patch domain.TaskPatch
			Now   time.Time
		}
	}
	lockCreate  sync.RWMutex
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
	lockRemove  sync.RWMutex
	lockUpdate  sync.RWMutex
}

func (mock *taskRepoMock) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if mock.CreateFunc == nil {
		panic("taskRepoMock.CreateFunc: method is nil but taskRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   domain.Task
	}{
		Ctx: ctx,
		T:   t,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, t)
}

func (mock *taskRepoMock) CreateCalls() []struct {
	Ctx context.Context
	T   domain.Task
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *taskRepoMock) GetByID(ctx context.Context, id string) (domain.Task, error) {
	if mock.GetByIDFunc == nil {
		panic("taskRepoMock.GetByIDFunc: method is nil but taskRepo.GetByID was just called")
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

func (mock *taskRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *taskRepoMock) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if mock.ListFunc == nil {
		panic("taskRepoMock.ListFunc: method is nil but taskRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.TaskFilter
	}{
		Ctx:    ctx,
		Filter: filter,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *taskRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.TaskFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *taskRepoMock) Remove(ctx context.Context, id string) error {
	if mock.RemoveFunc == nil {
		panic("taskRepoMock.RemoveFunc: method is nil but taskRepo.Remove was just called")
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

func (mock *taskRepoMock) RemoveCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockRemove.RLock()
	calls := mock.calls.Remove
	mock.lockRemove.RUnlock()
	return calls
}

func (mock *taskRepoMock) Update(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error) {
	if mock.UpdateFunc == nil {
		panic("taskRepoMock.UpdateFunc: method is nil but taskRepo.Update was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		ID    string
		Patch domain.TaskPatch
		Now   time.Time
	}{
		Ctx:   ctx,
		ID:    id,
		Patch: patch,
		Now:   now,
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, patch, now)
}

func (mock *taskRepoMock) UpdateCalls() []struct {
	Ctx   context.Context
	ID    string
	Patch domain.TaskPatch
	Now   time.Time
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}
