package messaging

import (
	"context"
	"sync"
)

var _ limiter = &limiterMock{}

type limiterMock struct {
	WaitFunc func(ctx context.Context) error

	calls struct {
		Wait []struct {
			Ctx context.Context
		}
	}
	lockWait sync.RWMutex
}

func (mock *limiterMock) Wait(ctx context.Context) error {
	if mock.WaitFunc == nil {
		panic("limiterMock.WaitFunc: method is nil but limiter.Wait was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockWait.Lock()
	mock.calls.Wait = append(mock.calls.Wait, callInfo)
	mock.lockWait.Unlock()
	return mock.WaitFunc(ctx)
}

func (mock *limiterMock) WaitCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockWait.RLock()
	calls = mock.calls.Wait
	mock.lockWait.RUnlock()
	return calls
}
