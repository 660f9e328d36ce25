package admin

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
)

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	CreateFunc func(ctx context.Context, e *domain.AuditEntry) error
	ListFunc   func(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			E   *domain.AuditEntry
		}
		List []struct {
			Ctx context.Context
			F   domain.AuditFilter
		}
	}
	lockCreate sync.RWMutex
	lockList   sync.RWMutex
}

func (mock *auditRepoMock) Create(ctx context.Context, e *domain.AuditEntry) error {
	if mock.CreateFunc == nil {
		panic("auditRepoMock.CreateFunc: method is nil but auditRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E   *domain.AuditEntry
	}{
		Ctx: ctx,
		E:   e,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, e)
}

func (mock *auditRepoMock) CreateCalls() []struct {
	Ctx context.Context
	E   *domain.AuditEntry
} {
	var calls []struct {
		Ctx context.Context
		E   *domain.AuditEntry
	}
	mock.lockCreate.RLock()
	calls = mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *auditRepoMock) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	if mock.ListFunc == nil {
		panic("auditRepoMock.ListFunc: method is nil but auditRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.AuditFilter
	}{
		Ctx: ctx,
		F:   f,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *auditRepoMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.AuditFilter
} {
	var calls []struct {
		Ctx context.Context
		F   domain.AuditFilter
	}
	mock.lockList.RLock()
	calls = mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
