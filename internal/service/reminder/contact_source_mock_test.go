package reminder

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
)

var _ ContactSource = &ContactSourceMock{}

type ContactSourceMock struct {
	GetAllContactsFunc func(ctx context.Context) ([]domain.Contact, error)

	calls struct {
		GetAllContacts []struct {
			Ctx context.Context
		}
	}
	lockGetAllContacts sync.RWMutex
}

func (mock *ContactSourceMock) GetAllContacts(ctx context.Context) ([]domain.Contact, error) {
	if mock.GetAllContactsFunc == nil {
		panic("ContactSourceMock.GetAllContactsFunc: method is nil but ContactSource.GetAllContacts was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockGetAllContacts.Lock()
	mock.calls.GetAllContacts = append(mock.calls.GetAllContacts, callInfo)
	mock.lockGetAllContacts.Unlock()
	return mock.GetAllContactsFunc(ctx)
}

func (mock *ContactSourceMock) GetAllContactsCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockGetAllContacts.RLock()
	calls = mock.calls.GetAllContacts
	mock.lockGetAllContacts.RUnlock()
	return calls
}
