package service

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/client"
	"bar-ordering-platform/internal/repository"
)

// OAuthService orchestrates the authorization-code callback for connecting a
// bar's MercadoPago account. The flow is request-scoped: nothing is retried
// here, the owner re-triggers the whole connect flow on failure.
type OAuthService interface {
	// HandleCallback runs the callback state machine and always produces a
	// frontend redirect URL, success or error.
	HandleCallback(ctx context.Context, code, state, errParam string) string
}

type oauthServiceImpl struct {
	mpClient        client.MercadoPagoClient
	barRepo         repository.BarRepository
	frontendBaseURL string
}

func NewOAuthService(
	mpClient client.MercadoPagoClient,
	barRepo repository.BarRepository,
	frontendBaseURL string,
) OAuthService {
	return &oauthServiceImpl{
		mpClient:        mpClient,
		barRepo:         barRepo,
		frontendBaseURL: frontendBaseURL,
	}
}

func (s *oauthServiceImpl) HandleCallback(ctx context.Context, code, state, errParam string) string {
	// Upstream denied authorization before issuing a code.
	if errParam != "" {
		return s.errorRedirect("MercadoPago authorization denied: " + errParam)
	}

	if len(strings.TrimSpace(code)) < 10 {
		return s.errorRedirect("authorization code is missing or malformed")
	}

	// state carries the bar id the owner initiated the flow for.
	barID := strings.TrimSpace(state)
	if barID == "" {
		return s.errorRedirect("missing bar reference in oauth state")
	}

	// Confirm the bar exists before exchanging: never obtain tokens for a
	// stale or nonexistent bar record.
	bar, err := s.barRepo.FindByID(ctx, barID)
	if err != nil {
		if kind, ok := apperr.KindOf(err); ok && kind == apperr.NotFound {
			return s.errorRedirect("bar not found: " + barID)
		}
		log.Printf("oauth callback: bar lookup failed for %s: %v", barID, err)
		return s.errorRedirect("could not verify bar")
	}

	tokens, err := s.mpClient.ExchangeCodeForTokens(ctx, code)
	if err != nil {
		// The upstream message travels into the redirect so operators can
		// diagnose credential or redirect-URI misconfiguration.
		log.Printf("oauth callback: token exchange failed for bar %s: %v", bar.ID, err)
		return s.errorRedirect(redirectableMessage(err))
	}

	// Advisory only. A failed account lookup never blocks the connection.
	if account := s.mpClient.GetMerchantAccountInfo(ctx, tokens.AccessToken, tokens.UserID); account != nil {
		log.Printf("oauth callback: bar %s connecting mercadopago account %d (%s)",
			bar.ID, account.ID, account.Nickname)
	}

	err = s.barRepo.UpdateOAuthTokens(ctx, bar.ID, &repository.OAuthTokens{
		MPUserID:     strconv.FormatInt(tokens.UserID, 10),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ConnectedAt:  time.Now(),
	})
	if err != nil {
		// Tokens were obtained but not stored. Reporting success here would
		// tell the owner "connected" with nothing saved.
		log.Printf("oauth callback: PERSISTENCE FAILURE storing tokens for bar %s: %v", bar.ID, err)
		return s.errorRedirect("failed to save connection, please try again")
	}

	return s.successRedirect(bar.ID)
}

func (s *oauthServiceImpl) successRedirect(barID string) string {
	q := url.Values{}
	q.Set("oauth", "success")
	q.Set("bar_id", barID)
	return s.frontendBaseURL + "/admin?" + q.Encode()
}

func (s *oauthServiceImpl) errorRedirect(reason string) string {
	q := url.Values{}
	q.Set("oauth", "error")
	q.Set("message", reason)
	return s.frontendBaseURL + "/admin?" + q.Encode()
}

// redirectableMessage extracts the human-readable part of a tagged error for
// the redirect query, falling back to the full error text.
func redirectableMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
