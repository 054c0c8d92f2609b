package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campus/pkg/credstore"
	"github.com/dmitrymomot/campus/pkg/logger"
	"github.com/dmitrymomot/campus/pkg/session"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"

	defaultTimeout = 15 * time.Second
)

// Client performs the handshakes that exchange credentials (or a refresh
// grant) for a session token. It is the only component that talks to the
// authentication endpoints; every other backend call goes through the
// request wrapper in the root package.
type Client interface {
	// Login performs the authentication handshake. The session mode is
	// derived from the account type the backend reports.
	Login(ctx context.Context, username, password string) (session.Session, error)

	// GuestSession returns an unauthenticated session. No network round
	// trip is required; the backend does not issue guest tokens.
	GuestSession() session.Session

	// Renew obtains a fresh token for an existing identity without user
	// interaction: via the refresh grant when present, otherwise by
	// replaying stored credentials. Returns ErrRenewalRejected when the
	// backend definitively refuses.
	Renew(ctx context.Context, current session.Session) (session.Session, error)
}

// CredentialSource supplies the stored "stay signed in" pair for renewal.
// Returns credstore.ErrNotFound when the user never opted in.
type CredentialSource func(ctx context.Context) (credstore.Credentials, error)

// HTTPClient implements Client against the portal's JSON auth endpoints.
type HTTPClient struct {
	httpClient *http.Client
	creds      CredentialSource
	logger     *slog.Logger
	baseURL    string
	defaultTTL time.Duration
}

// NewHTTPClient creates a client for the given backend base URL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.Join(ErrGeneric, errors.New("base URL required"))
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c, nil
}

// tokenResponse is the payload of both auth endpoints.
type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	AccountType  string `json:"account_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login performs the login handshake.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (session.Session, error) {
	body := map[string]string{"username": username, "password": password}

	resp, err := c.post(ctx, loginPath, body)
	if err != nil {
		return session.Session{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return c.decodeSession(resp.Body, session.ModeGuest)
	case http.StatusUnauthorized, http.StatusForbidden:
		return session.Session{}, ErrInvalidCredentials
	default:
		return session.Session{}, statusError(resp)
	}
}

// GuestSession returns a locally-constructed guest session.
func (c *HTTPClient) GuestSession() session.Session {
	return session.NewGuest()
}

// Renew obtains a fresh token for the current identity.
//
// The refresh grant is preferred; if the backend rejects it (or none was
// issued) the stored credentials are replayed. Only a definitive backend
// refusal maps to ErrRenewalRejected; transport failures stay transport
// failures so the caller does not tear down a session the backend never
// judged.
func (c *HTTPClient) Renew(ctx context.Context, current session.Session) (session.Session, error) {
	if current.RefreshToken != "" {
		fresh, err := c.refresh(ctx, current)
		if err == nil || !errors.Is(err, ErrRenewalRejected) {
			return fresh, err
		}
		c.logger.DebugContext(ctx, "refresh grant rejected, replaying stored credentials")
	}

	if c.creds == nil {
		return session.Session{}, errors.Join(ErrRenewalRejected, errors.New("no renewal path available"))
	}

	creds, err := c.creds(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return session.Session{}, errors.Join(ErrRenewalRejected, errors.New("no stored credentials"))
		}
		return session.Session{}, fmt.Errorf("load stored credentials: %w", err)
	}

	fresh, err := c.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Stored credentials are stale; re-login is the only way out.
			return session.Session{}, errors.Join(ErrRenewalRejected, errors.New("stored credentials rejected"))
		}
		return session.Session{}, err
	}
	return fresh, nil
}

func (c *HTTPClient) refresh(ctx context.Context, current session.Session) (session.Session, error) {
	body := map[string]string{"refresh_token": current.RefreshToken}

	resp, err := c.post(ctx, refreshPath, body)
	if err != nil {
		return session.Session{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// The refresh payload may omit account_type; the identity is
		// unchanged by a renewal, so fall back to the current mode.
		return c.decodeSession(resp.Body, current.Mode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return session.Session{}, ErrRenewalRejected
	default:
		return session.Session{}, statusError(resp)
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Join(ErrGeneric, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Join(ErrGeneric, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	return resp, nil
}

func (c *HTTPClient) decodeSession(r io.Reader, fallbackMode session.Mode) (session.Session, error) {
	var tr tokenResponse
	if err := json.NewDecoder(r).Decode(&tr); err != nil {
		return session.Session{}, errors.Join(ErrMalformedResponse, fmt.Errorf("decode token response: %w", err))
	}
	if tr.Token == "" {
		return session.Session{}, errors.Join(ErrMalformedResponse, errors.New("empty token"))
	}

	mode := fallbackMode
	switch tr.AccountType {
	case "student":
		mode = session.ModeStudent
	case "employee":
		mode = session.ModeEmployee
	case "":
		if fallbackMode == session.ModeGuest {
			return session.Session{}, errors.Join(ErrMalformedResponse, errors.New("missing account type"))
		}
	default:
		return session.Session{}, errors.Join(ErrMalformedResponse, fmt.Errorf("unknown account type %q", tr.AccountType))
	}

	ttl := c.defaultTTL
	if tr.ExpiresIn > 0 {
		ttl = time.Duration(tr.ExpiresIn) * time.Second
	}

	return session.New(mode, tr.Token, tr.RefreshToken, ttl), nil
}

// statusError maps an unexpected response into ErrGeneric with the
// backend's diagnostics preserved.
func statusError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
	}

	return errors.Join(ErrGeneric, apiErr)
}
