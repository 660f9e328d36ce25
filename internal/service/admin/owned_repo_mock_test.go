package admin

import (
	"context"
	"sync"
)

var _ ownedRepo = &ownedRepoMock{}

type ownedRepoMock struct {
	CountByUserFunc     func(ctx context.Context, userID string) (int, error)
	DeleteAllByUserFunc func(ctx context.Context, userID string) error

	calls struct {
		CountByUser []struct {
			Ctx    context.Context
			UserID string
		}
		DeleteAllByUser []struct {
			Ctx    context.Context
			UserID string
		}
	}
	lockCountByUser     sync.RWMutex
	lockDeleteAllByUser sync.RWMutex
}

func (mock *ownedRepoMock) CountByUser(ctx context.Context, userID string) (int, error) {
	if mock.CountByUserFunc == nil {
		panic("ownedRepoMock.CountByUserFunc: method is nil but ownedRepo.CountByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockCountByUser.Lock()
	mock.calls.CountByUser = append(mock.calls.CountByUser, callInfo)
	mock.lockCountByUser.Unlock()
	return mock.CountByUserFunc(ctx, userID)
}

func (mock *ownedRepoMock) CountByUserCalls() []struct {
	Ctx    context.Context
	UserID string
} {
	var calls []struct {
		Ctx    context.Context
		UserID string
	}
	mock.lockCountByUser.RLock()
	calls = mock.calls.CountByUser
	mock.lockCountByUser.RUnlock()
	return calls
}

func (mock *ownedRepoMock) DeleteAllByUser(ctx context.Context, userID string) error {
	if mock.DeleteAllByUserFunc == nil {
		panic("ownedRepoMock.DeleteAllByUserFunc: method is nil but ownedRepo.DeleteAllByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockDeleteAllByUser.Lock()
	mock.calls.DeleteAllByUser = append(mock.calls.DeleteAllByUser, callInfo)
	mock.lockDeleteAllByUser.Unlock()
	return mock.DeleteAllByUserFunc(ctx, userID)
}

func (mock *ownedRepoMock) DeleteAllByUserCalls() []struct {
	Ctx    context.Context
	UserID string
} {
	var calls []struct {
		Ctx    context.Context
		UserID string
	}
	mock.lockDeleteAllByUser.RLock()
	calls = mock.calls.DeleteAllByUser
	mock.lockDeleteAllByUser.RUnlock()
	return calls
}
