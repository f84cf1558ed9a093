package account

import (
	"context"
	"sync"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	CreateFunc     func(ctx context.Context, a domain.Account) (domain.Account, error)
	CredentialFunc func(ctx context.Context, email string) (domain.Credential, error)
	GetByIDFunc    func(ctx context.Context, id string) (domain.Account, error)
	ListFunc       func(ctx context.Context) ([]domain.Account, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			A   domain.Account
		}
		Credential []struct {
			Ctx   context.Context
			Email string
		}
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		List []struct {
			Ctx context.Context
		}
	}
	lockCreate     sync.RWMutex
	lockCredential sync.RWMutex
	lockGetByID    sync.RWMutex
	lockList       sync.RWMutex
}

func (mock *accountRepoMock) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	if mock.CreateFunc == nil {
		panic("accountRepoMock.CreateFunc: method is nil but accountRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   domain.Account
	}{
		Ctx: ctx,
		A:   a,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, a)
}

func (mock *accountRepoMock) CreateCalls() []struct {
	Ctx context.Context
	A   domain.Account
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *accountRepoMock) Credential(ctx context.Context, email string) (domain.Credential, error) {
	if mock.CredentialFunc == nil {
		panic("accountRepoMock.CredentialFunc: method is nil but accountRepo.Credential was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockCredential.Lock()
	mock.calls.Credential = append(mock.calls.Credential, callInfo)
	mock.lockCredential.Unlock()
	return mock.CredentialFunc(ctx, email)
}

func (mock *accountRepoMock) CredentialCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockCredential.RLock()
	calls := mock.calls.Credential
	mock.lockCredential.RUnlock()
	return calls
}

func (mock *accountRepoMock) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if mock.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc: method is nil but accountRepo.GetByID was just called")
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

func (mock *accountRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *accountRepoMock) List(ctx context.Context) ([]domain.Account, error) {
	if mock.ListFunc == nil {
		panic("accountRepoMock.ListFunc: method is nil but accountRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx)
}

func (mock *accountRepoMock) ListCalls() []struct {
	Ctx context.Context
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
