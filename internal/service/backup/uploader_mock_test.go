package backup

import (
	"context"
	"sync"
)

var _ uploader = &uploaderMock{}

type uploaderMock struct {
	PutFunc func(ctx context.Context, key string, contentType string, body []byte) error

	calls struct {
		Put []struct {
			Ctx         context.Context
			Key         string
			ContentType string
			Body        []byte
		}
	}
	lockPut sync.RWMutex
}

func (mock *uploaderMock) Put(ctx context.Context, key string, contentType string, body []byte) error {
	if mock.PutFunc == nil {
		panic("uploaderMock.PutFunc: method is nil but uploader.Put was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Key         string
		ContentType string
		Body        []byte
	}{
		Ctx:         ctx,
		Key:         key,
		ContentType: contentType,
		Body:        body,
	}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, key, contentType, body)
}

func (mock *uploaderMock) PutCalls() []struct {
	Ctx         context.Context
	Key         string
	ContentType string
	Body        []byte
} {
	var calls []struct {
		Ctx         context.Context
		Key         string
		ContentType string
		Body        []byte
	}
	mock.lockPut.RLock()
	calls = mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}
