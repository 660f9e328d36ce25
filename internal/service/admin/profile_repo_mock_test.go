package admin

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
	"time"
)

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	DeleteFunc       func(ctx context.Context, id string) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Profile, error)
	ListFunc         func(ctx context.Context) ([]domain.Profile, error)
	SetRoleFunc      func(ctx context.Context, id string, role domain.UserRole, now time.Time) error
	SetSuspendedFunc func(ctx context.Context, id string, suspended bool, by string, now time.Time) error

	calls struct {
		Delete []struct {
			Ctx context.Context
			ID  string
		}
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		List []struct {
			Ctx context.Context
		}
		SetRole []struct {
			Ctx  context.Context
			ID   string
			Role domain.UserRole
			Now  time.Time
		}
		SetSuspended []struct {
			Ctx       context.Context
			ID        string
			Suspended bool
			By        string
			Now       time.Time
		}
	}
	lockDelete       sync.RWMutex
	lockGetByID      sync.RWMutex
	lockList         sync.RWMutex
	lockSetRole      sync.RWMutex
	lockSetSuspended sync.RWMutex
}

func (mock *profileRepoMock) Delete(ctx context.Context, id string) error {
	if mock.DeleteFunc == nil {
		panic("profileRepoMock.DeleteFunc: method is nil but profileRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *profileRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  string
} {
	var calls []struct {
		Ctx context.Context
		ID  string
	}
	mock.lockDelete.RLock()
	calls = mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *profileRepoMock) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if mock.GetByIDFunc == nil {
		panic("profileRepoMock.GetByIDFunc: method is nil but profileRepo.GetByID was just called")
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

func (mock *profileRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	var calls []struct {
		Ctx context.Context
		ID  string
	}
	mock.lockGetByID.RLock()
	calls = mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *profileRepoMock) List(ctx context.Context) ([]domain.Profile, error) {
	if mock.ListFunc == nil {
		panic("profileRepoMock.ListFunc: method is nil but profileRepo.List was just called")
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

func (mock *profileRepoMock) ListCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockList.RLock()
	calls = mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *profileRepoMock) SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error {
	if mock.SetRoleFunc == nil {
		panic("profileRepoMock.SetRoleFunc: method is nil but profileRepo.SetRole was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		ID   string
		Role domain.UserRole
		Now  time.Time
	}{
		Ctx:  ctx,
		ID:   id,
		Role: role,
		Now:  now,
	}
	mock.lockSetRole.Lock()
	mock.calls.SetRole = append(mock.calls.SetRole, callInfo)
	mock.lockSetRole.Unlock()
	return mock.SetRoleFunc(ctx, id, role, now)
}

func (mock *profileRepoMock) SetRoleCalls() []struct {
	Ctx  context.Context
	ID   string
	Role domain.UserRole
	Now  time.Time
} {
	var calls []struct {
		Ctx  context.Context
		ID   string
		Role domain.UserRole
		Now  time.Time
	}
	mock.lockSetRole.RLock()
	calls = mock.calls.SetRole
	mock.lockSetRole.RUnlock()
	return calls
}

func (mock *profileRepoMock) SetSuspended(ctx context.Context, id string, suspended bool, by string, now time.Time) error {
	if mock.SetSuspendedFunc == nil {
		panic("profileRepoMock.SetSuspendedFunc: method is nil but profileRepo.SetSuspended was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        string
		Suspended bool
		By        string
		Now       time.Time
	}{
		Ctx:       ctx,
		ID:        id,
		Suspended: suspended,
		By:        by,
		Now:       now,
	}
	mock.lockSetSuspended.Lock()
	mock.calls.SetSuspended = append(mock.calls.SetSuspended, callInfo)
	mock.lockSetSuspended.Unlock()
	return mock.SetSuspendedFunc(ctx, id, suspended, by, now)
}

func (mock *profileRepoMock) SetSuspendedCalls() []struct {
	Ctx       context.Context
	ID        string
	Suspended bool
	By        string
	Now       time.Time
} {
	var calls []struct {
		Ctx       context.Context
		ID        string
		Suspended bool
		By        string
		Now       time.Time
	}
	mock.lockSetSuspended.RLock()
	calls = mock.calls.SetSuspended
	mock.lockSetSuspended.RUnlock()
	return calls
}
