package profile

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
	"time"
)

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Profile, error)
	RecordLoginFunc func(ctx context.Context, id string, at time.Time) error
	SetRoleFunc     func(ctx context.Context, id string, role domain.UserRole, now time.Time) error
	UpdatePhoneFunc func(ctx context.Context, id string, phone *string, now time.Time) error
	UpsertFunc      func(ctx context.Context, p *domain.Profile) error

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
		RecordLogin []struct {
			Ctx context.Context
			ID  string
			At  time.Time
		}
		SetRole []struct {
			Ctx  context.Context
			ID   string
			Role domain.UserRole
			Now  time.Time
		}
		UpdatePhone []struct {
			Ctx   context.Context
			ID    string
			Phone *string
			Now   time.Time
		}
		Upsert []struct {
			Ctx context.Context
			P   *domain.Profile
		}
	}
	lockGetByID     sync.RWMutex
	lockRecordLogin sync.RWMutex
	lockSetRole     sync.RWMutex
	lockUpdatePhone sync.RWMutex
	lockUpsert      sync.RWMutex
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

func (mock *profileRepoMock) RecordLogin(ctx context.Context, id string, at time.Time) error {
	if mock.RecordLoginFunc == nil {
		panic("profileRepoMock.RecordLoginFunc: method is nil but profileRepo.RecordLogin was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
		At  time.Time
	}{
		Ctx: ctx,
		ID:  id,
		At:  at,
	}
	mock.lockRecordLogin.Lock()
	mock.calls.RecordLogin = append(mock.calls.RecordLogin, callInfo)
	mock.lockRecordLogin.Unlock()
	return mock.RecordLoginFunc(ctx, id, at)
}

func (mock *profileRepoMock) RecordLoginCalls() []struct {
	Ctx context.Context
	ID  string
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		ID  string
		At  time.Time
	}
	mock.lockRecordLogin.RLock()
	calls = mock.calls.RecordLogin
	mock.lockRecordLogin.RUnlock()
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

func (mock *profileRepoMock) UpdatePhone(ctx context.Context, id string, phone *string, now time.Time) error {
	if mock.UpdatePhoneFunc == nil {
		panic("profileRepoMock.UpdatePhoneFunc: method is nil but profileRepo.UpdatePhone was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		ID    string
		Phone *string
		Now   time.Time
	}{
		Ctx:   ctx,
		ID:    id,
		Phone: phone,
		Now:   now,
	}
	mock.lockUpdatePhone.Lock()
	mock.calls.UpdatePhone = append(mock.calls.UpdatePhone, callInfo)
	mock.lockUpdatePhone.Unlock()
	return mock.UpdatePhoneFunc(ctx, id, phone, now)
}

func (mock *profileRepoMock) UpdatePhoneCalls() []struct {
	Ctx   context.Context
	ID    string
	Phone *string
	Now   time.Time
} {
	var calls []struct {
		Ctx   context.Context
		ID    string
		Phone *string
		Now   time.Time
	}
	mock.lockUpdatePhone.RLock()
	calls = mock.calls.UpdatePhone
	mock.lockUpdatePhone.RUnlock()
	return calls
}

func (mock *profileRepoMock) Upsert(ctx context.Context, p *domain.Profile) error {
	if mock.UpsertFunc == nil {
		panic("profileRepoMock.UpsertFunc: method is nil but profileRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   *domain.Profile
	}{
		Ctx: ctx,
		P:   p,
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, p)
}

func (mock *profileRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	P   *domain.Profile
} {
	var calls []struct {
		Ctx context.Context
		P   *domain.Profile
	}
	mock.lockUpsert.RLock()
	calls = mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
