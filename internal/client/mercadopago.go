package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/config"
	"bar-ordering-platform/internal/model"
)

// MercadoPago hard limit on statement descriptors.
const statementDescriptorMaxLen = 22

// Authorization codes shorter than this are malformed; the processor never
// issues codes this short.
const minAuthCodeLen = 10

type MercadoPagoClient interface {
	// ExchangeCodeForTokens swaps an OAuth authorization code for the
	// merchant's access/refresh tokens. Codes are single-use upstream, so a
	// replayed callback fails here with an upstream error.
	ExchangeCodeForTokens(ctx context.Context, code string) (*model.MPTokenResponse, error)

	// GetMerchantAccountInfo is advisory validation only. Any failure is
	// logged and reported as a nil account, never as an error.
	GetMerchantAccountInfo(ctx context.Context, accessToken string, userID int64) *model.MPAccountInfo

	// CreateCheckoutPreference creates a hosted checkout session on the
	// merchant's account with the platform's marketplace fee attached.
	CreateCheckoutPreference(ctx context.Context, sellerAccessToken string, pref *model.MPPreferenceRequest) (*model.MPPreferenceResponse, error)

	// GetPayment fetches the authoritative payment record. This is the sole
	// source of truth for payment status.
	GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error)
}

type mercadoPagoClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
	redirectURL  string
}

func NewMercadoPagoClient(mpCfg *config.MercadoPago) MercadoPagoClient {
	return &mercadoPagoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   strings.TrimRight(mpCfg.BaseApiURL, "/"),
		clientID:     mpCfg.ClientID,
		clientSecret: mpCfg.ClientSecret,
		redirectURL:  mpCfg.RedirectURL,
	}
}

// upstreamMessage parses an error body defensively: JSON message if present,
// raw text otherwise. Processor error schemas are not stable enough to trust.
func upstreamMessage(body []byte) string {
	var mpErr model.MPErrorBody
	if err := json.Unmarshal(body, &mpErr); err == nil {
		if mpErr.Message != "" {
			return mpErr.Message
		}
		if mpErr.Error != "" {
			return mpErr.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func (c *mercadoPagoClientImpl) ExchangeCodeForTokens(ctx context.Context, code string) (*model.MPTokenResponse, error) {
	if len(strings.TrimSpace(code)) < minAuthCodeLen {
		return nil, apperr.New(apperr.Validation, apperr.CodeMissingOrMalformedCode,
			"authorization code is missing or malformed")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodeOAuthExchangeFailed,
			"token exchange request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(body)
		// 401 means our client credentials or redirect URI do not match the
		// registered app. Surfaced distinctly so operators can tell a
		// misconfiguration from a transient failure.
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, apperr.New(apperr.Upstream, apperr.CodeOAuthCredentialMismatch,
				fmt.Sprintf("token exchange rejected (401): %s - check client credentials and redirect URI", msg))
		}
		return nil, apperr.New(apperr.Upstream, apperr.CodeOAuthExchangeFailed,
			fmt.Sprintf("token exchange failed (%d): %s", resp.StatusCode, msg))
	}

	var tokens model.MPTokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodeOAuthExchangeFailed,
			"decode token response", err)
	}

	// A 2xx with an incomplete payload is a protocol violation, not success.
	if tokens.AccessToken == "" || tokens.UserID == 0 {
		return nil, apperr.New(apperr.Upstream, apperr.CodeOAuthExchangeFailed,
			"token response missing access_token or user_id")
	}

	return &tokens, nil
}

func (c *mercadoPagoClientImpl) GetMerchantAccountInfo(ctx context.Context, accessToken string, userID int64) *model.MPAccountInfo {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/users/%d", c.baseApiURL, userID), nil)
	if err != nil {
		log.Printf("mercadopago account info request: %v", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("mercadopago account info fetch: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		log.Printf("mercadopago account info status %d: %s", resp.StatusCode, upstreamMessage(b))
		return nil
	}

	var account model.MPAccountInfo
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		log.Printf("decode mercadopago account info: %v", err)
		return nil
	}

	return &account
}

func (c *mercadoPagoClientImpl) CreateCheckoutPreference(ctx context.Context, sellerAccessToken string, pref *model.MPPreferenceRequest) (*model.MPPreferenceResponse, error) {
	// Truncated, not rejected: descriptors over the limit are a cosmetic
	// problem, not a reason to abort checkout. Truncation is on runes so a
	// multi-byte bar name never produces invalid UTF-8 in the payload.
	if runes := []rune(pref.StatementDescriptor); len(runes) > statementDescriptorMaxLen {
		pref.StatementDescriptor = string(runes[:statementDescriptorMaxLen])
	}

	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/checkout/preferences",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sellerAccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodePreferenceCreationFailed,
			"preference request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.Upstream, apperr.CodePreferenceCreationFailed,
			fmt.Sprintf("preference creation failed (%d): %s", resp.StatusCode, upstreamMessage(b)))
	}

	var result model.MPPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodePreferenceCreationFailed,
			"decode preference response", err)
	}
	if result.ID == "" || result.InitPoint == "" {
		return nil, apperr.New(apperr.Upstream, apperr.CodePreferenceCreationFailed,
			"preference response missing id or init_point")
	}

	return &result, nil
}

// getPlatformAccessToken mints a client-credentials token for the platform
// app. Payment lookups use it because a notification arrives before we know
// which bar the payment belongs to.
func (c *mercadoPagoClientImpl) getPlatformAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("platform token request failed (%d): %s",
			resp.StatusCode, upstreamMessage(body))
	}

	var res model.MPTokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode platform token response: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("platform token response missing access_token")
	}

	return res.AccessToken, nil
}

func (c *mercadoPagoClientImpl) GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error) {
	accessToken, err := c.getPlatformAccessToken(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodePaymentLookupFailed,
			"get platform access token", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodePaymentLookupFailed,
			"payment lookup request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.Upstream, apperr.CodePaymentLookupFailed,
			fmt.Sprintf("payment %s lookup failed (%d): %s",
				paymentID, resp.StatusCode, upstreamMessage(body)))
	}

	var payment model.MPPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, apperr.CodePaymentLookupFailed,
			"decode payment response", err)
	}
	if payment.ID == 0 {
		return nil, apperr.New(apperr.Upstream, apperr.CodePaymentLookupFailed,
			"payment response missing id")
	}

	return &payment, nil
}
