package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/repository"
	"bar-ordering-platform/internal/service"
)

const frontend = "https://app.example.com"

func newOAuthService(mp *MockMercadoPagoClient, bars *MockBarRepository) service.OAuthService {
	return service.NewOAuthService(mp, bars, frontend)
}

func redirectQuery(t *testing.T, redirect string) url.Values {
	t.Helper()
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	return u.Query()
}

func TestHandleCallback_Success(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	bars.On("FindByID", mock.Anything, "B1").Return(activeBar(), nil)
	mp.On("ExchangeCodeForTokens", mock.Anything, "TG-0123456789").Return(&model.MPTokenResponse{
		AccessToken:  "APP_USR-new-token",
		RefreshToken: "TG-refresh",
		UserID:       987654,
	}, nil)
	mp.On("GetMerchantAccountInfo", mock.Anything, "APP_USR-new-token", int64(987654)).
		Return(&model.MPAccountInfo{ID: 987654, Nickname: "LAESQUINA"})

	var saved *repository.OAuthTokens
	bars.On("UpdateOAuthTokens", mock.Anything, "B1", mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*repository.OAuthTokens)
		}).Return(nil)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "B1", "")

	assert.True(t, strings.HasPrefix(redirect, frontend+"/admin?"))
	q := redirectQuery(t, redirect)
	assert.Equal(t, "success", q.Get("oauth"))
	assert.Equal(t, "B1", q.Get("bar_id"))

	require.NotNil(t, saved)
	assert.Equal(t, "987654", saved.MPUserID)
	assert.Equal(t, "APP_USR-new-token", saved.AccessToken)
	assert.Equal(t, "TG-refresh", saved.RefreshToken)
	assert.False(t, saved.ConnectedAt.IsZero())
}

func TestHandleCallback_MissingCodeNoWrites(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "", "B1", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "missing or malformed")

	mp.AssertNotCalled(t, "ExchangeCodeForTokens", mock.Anything, mock.Anything)
	bars.AssertNotCalled(t, "UpdateOAuthTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_ShortCodeRejected(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "short", "B1", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	mp.AssertNotCalled(t, "ExchangeCodeForTokens", mock.Anything, mock.Anything)
}

func TestHandleCallback_MissingStateRejected(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "missing bar reference")
	mp.AssertNotCalled(t, "ExchangeCodeForTokens", mock.Anything, mock.Anything)
}

func TestHandleCallback_UpstreamDenial(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "", "B1", "access_denied")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "access_denied")
	mp.AssertNotCalled(t, "ExchangeCodeForTokens", mock.Anything, mock.Anything)
}

func TestHandleCallback_UnknownBarNoExchange(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	// B1 does not exist: the exchange must never run, or a single-use code
	// would be burned for a bar we cannot store tokens on.
	bars.On("FindByID", mock.Anything, "B1").
		Return(nil, apperr.New(apperr.NotFound, apperr.CodeBarNotFound, "bar not found"))

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "B1", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "bar not found")
	mp.AssertNotCalled(t, "ExchangeCodeForTokens", mock.Anything, mock.Anything)
	bars.AssertNotCalled(t, "UpdateOAuthTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_ExchangeFailurePropagatesMessage(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	bars.On("FindByID", mock.Anything, "B1").Return(activeBar(), nil)
	// a replayed single-use code fails upstream; expected terminal failure
	mp.On("ExchangeCodeForTokens", mock.Anything, "TG-0123456789").
		Return(nil, apperr.New(apperr.Upstream, apperr.CodeOAuthCredentialMismatch,
			"token exchange rejected (401): invalid_client - check client credentials and redirect URI"))

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "B1", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "invalid_client")
	bars.AssertNotCalled(t, "UpdateOAuthTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_AccountInfoFailureDoesNotBlock(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	bars.On("FindByID", mock.Anything, "B1").Return(activeBar(), nil)
	mp.On("ExchangeCodeForTokens", mock.Anything, "TG-0123456789").Return(&model.MPTokenResponse{
		AccessToken: "APP_USR-new-token",
		UserID:      987654,
	}, nil)
	// advisory lookup fails (nil account); connection proceeds anyway
	mp.On("GetMerchantAccountInfo", mock.Anything, "APP_USR-new-token", int64(987654)).
		Return(nil)
	bars.On("UpdateOAuthTokens", mock.Anything, "B1", mock.Anything).Return(nil)

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "B1", "")

	q := redirectQuery(t, redirect)
	assert.Equal(t, "success", q.Get("oauth"))
}

func TestHandleCallback_PersistFailureIsNotSuccess(t *testing.T) {
	mp := new(MockMercadoPagoClient)
	bars := new(MockBarRepository)

	bars.On("FindByID", mock.Anything, "B1").Return(activeBar(), nil)
	mp.On("ExchangeCodeForTokens", mock.Anything, "TG-0123456789").Return(&model.MPTokenResponse{
		AccessToken: "APP_USR-new-token",
		UserID:      987654,
	}, nil)
	mp.On("GetMerchantAccountInfo", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bars.On("UpdateOAuthTokens", mock.Anything, "B1", mock.Anything).
		Return(apperr.New(apperr.Persistence, apperr.CodeBarUpdateFailed, "update bar oauth tokens"))

	redirect := newOAuthService(mp, bars).HandleCallback(context.Background(), "TG-0123456789", "B1", "")

	// tokens were obtained but not stored: never report success
	q := redirectQuery(t, redirect)
	assert.Equal(t, "error", q.Get("oauth"))
	assert.Contains(t, q.Get("message"), "failed to save connection")
}
