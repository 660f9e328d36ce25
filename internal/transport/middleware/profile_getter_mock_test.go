package middleware

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
)

var _ profileGetter = &profileGetterMock{}

type profileGetterMock struct {
	GetByIDFunc func(ctx context.Context, id string) (*domain.Profile, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  string
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *profileGetterMock) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if mock.GetByIDFunc == nil {
		panic("profileGetterMock.GetByIDFunc: method is nil but profileGetter.GetByID was just called")
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

func (mock *profileGetterMock) GetByIDCalls() []struct {
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
