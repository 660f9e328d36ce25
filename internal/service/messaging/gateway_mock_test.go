package messaging

import (
	"context"
	"github.com/heartmarshall/gratitude-backend/internal/provider"
	"sync"
)

var _ gateway = &gatewayMock{}

type gatewayMock struct {
	SendFunc func(ctx context.Context, msg provider.OutboundMessage) (*provider.MessageReceipt, error)

	calls struct {
		Send []struct {
			Ctx context.Context
			Msg provider.OutboundMessage
		}
	}
	lockSend sync.RWMutex
}

func (mock *gatewayMock) Send(ctx context.Context, msg provider.OutboundMessage) (*provider.MessageReceipt, error) {
	if mock.SendFunc == nil {
		panic("gatewayMock.SendFunc: method is nil but gateway.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg provider.OutboundMessage
	}{
		Ctx: ctx,
		Msg: msg,
	}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, msg)
}

func (mock *gatewayMock) SendCalls() []struct {
	Ctx context.Context
	Msg provider.OutboundMessage
} {
	var calls []struct {
		Ctx context.Context
		Msg provider.OutboundMessage
	}
	mock.lockSend.RLock()
	calls = mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
