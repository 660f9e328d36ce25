package reminder

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/messaging"
	"sync"
)

var _ sender = &senderMock{}

type senderMock struct {
	SendFunc func(ctx context.Context, in messaging.SendInput) (*domain.SendResult, error)

	calls struct {
		Send []struct {
			Ctx context.Context
			In  messaging.SendInput
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, in messaging.SendInput) (*domain.SendResult, error) {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  messaging.SendInput
	}{
		Ctx: ctx,
		In:  in,
	}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, in)
}

func (mock *senderMock) SendCalls() []struct {
	Ctx context.Context
	In  messaging.SendInput
} {
	var calls []struct {
		Ctx context.Context
		In  messaging.SendInput
	}
	mock.lockSend.RLock()
	calls = mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
