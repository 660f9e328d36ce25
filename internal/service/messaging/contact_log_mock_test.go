package messaging

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"sync"
)

var _ ContactLog = &ContactLogMock{}

type ContactLogMock struct {
	RecordSentMessageFunc func(ctx context.Context, contactID uuid.UUID, msg domain.SentMessage) (*domain.SentMessage, error)

	calls struct {
		RecordSentMessage []struct {
			Ctx       context.Context
			ContactID uuid.UUID
			Msg       domain.SentMessage
		}
	}
	lockRecordSentMessage sync.RWMutex
}

func (mock *ContactLogMock) RecordSentMessage(ctx context.Context, contactID uuid.UUID, msg domain.SentMessage) (*domain.SentMessage, error) {
	if mock.RecordSentMessageFunc == nil {
		panic("ContactLogMock.RecordSentMessageFunc: method is nil but ContactLog.RecordSentMessage was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ContactID uuid.UUID
		Msg       domain.SentMessage
	}{
		Ctx:       ctx,
		ContactID: contactID,
		Msg:       msg,
	}
	mock.lockRecordSentMessage.Lock()
	mock.calls.RecordSentMessage = append(mock.calls.RecordSentMessage, callInfo)
	mock.lockRecordSentMessage.Unlock()
	return mock.RecordSentMessageFunc(ctx, contactID, msg)
}

func (mock *ContactLogMock) RecordSentMessageCalls() []struct {
	Ctx       context.Context
	ContactID uuid.UUID
	Msg       domain.SentMessage
} {
	var calls []struct {
		Ctx       context.Context
		ContactID uuid.UUID
		Msg       domain.SentMessage
	}
	mock.lockRecordSentMessage.RLock()
	calls = mock.calls.RecordSentMessage
	mock.lockRecordSentMessage.RUnlock()
	return calls
}
