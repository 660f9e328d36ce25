package admin

import (
	"sync"
)

var _ resetIssuer = &resetIssuerMock{}

type resetIssuerMock struct {
	GeneratePasswordResetTokenFunc func(userID string, email string) (string, error)
	ResetLinkFunc                  func(token string) string

	calls struct {
		GeneratePasswordResetToken []struct {
			UserID string
			Email  string
		}
		ResetLink []struct {
			Token string
		}
	}
	lockGeneratePasswordResetToken sync.RWMutex
	lockResetLink                  sync.RWMutex
}

func (mock *resetIssuerMock) GeneratePasswordResetToken(userID string, email string) (string, error) {
	if mock.GeneratePasswordResetTokenFunc == nil {
		panic("resetIssuerMock.GeneratePasswordResetTokenFunc: method is nil but resetIssuer.GeneratePasswordResetToken was just called")
	}
	callInfo := struct {
		UserID string
		Email  string
	}{
		UserID: userID,
		Email:  email,
	}
	mock.lockGeneratePasswordResetToken.Lock()
	mock.calls.GeneratePasswordResetToken = append(mock.calls.GeneratePasswordResetToken, callInfo)
	mock.lockGeneratePasswordResetToken.Unlock()
	return mock.GeneratePasswordResetTokenFunc(userID, email)
}

func (mock *resetIssuerMock) GeneratePasswordResetTokenCalls() []struct {
	UserID string
	Email  string
} {
	var calls []struct {
		UserID string
		Email  string
	}
	mock.lockGeneratePasswordResetToken.RLock()
	calls = mock.calls.GeneratePasswordResetToken
	mock.lockGeneratePasswordResetToken.RUnlock()
	return calls
}

func (mock *resetIssuerMock) ResetLink(token string) string {
	if mock.ResetLinkFunc == nil {
		panic("resetIssuerMock.ResetLinkFunc: method is nil but resetIssuer.ResetLink was just called")
	}
	callInfo := struct {
		Token string
	}{
		Token: token,
	}
	mock.lockResetLink.Lock()
	mock.calls.ResetLink = append(mock.calls.ResetLink, callInfo)
	mock.lockResetLink.Unlock()
	return mock.ResetLinkFunc(token)
}

func (mock *resetIssuerMock) ResetLinkCalls() []struct {
	Token string
} {
	var calls []struct {
		Token string
	}
	mock.lockResetLink.RLock()
	calls = mock.calls.ResetLink
	mock.lockResetLink.RUnlock()
	return calls
}
