package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	gosync "sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// expirySlack is subtracted from the token lifetime so a token that is
// about to expire mid-request is refreshed up front.
const expirySlack = 30 * time.Second

// SessionManager owns the process-wide remote session: one in-memory
// access token plus the rotating refresh token persisted through the
// TokenStore. The refresh token is single-use; after every refresh the
// newly issued one replaces it before the access token is handed out.
//
// All state transitions happen under mu, which also serializes the
// refresh itself: concurrent callers that find the access token expired
// block on the mutex, and all but the first reuse the token the first
// caller obtained.
type SessionManager struct {
	conf   *oauth2.Config
	store  sync.TokenStore
	logger *zap.Logger

	connectionsURL string
	httpClient     *http.Client

	mu          gosync.Mutex
	accessToken string
	expiresAt   time.Time
	tenants     []sync.Tenant
}

// NewSessionManager creates a session manager backed by the given token store
func NewSessionManager(cfg *Config, store sync.TokenStore, logger *zap.Logger) (*SessionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("remote: token store is required")
	}

	return &SessionManager{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		},
		store:          store,
		logger:         logger,
		connectionsURL: cfg.ConnectionsURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Token returns a valid access token, refreshing the session if the
// cached one is missing or expired. Returns sync.ErrUnauthenticated
// when no refresh token is stored or the refresh grant is rejected.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != "" && time.Now().Before(m.expiresAt) {
		return m.accessToken, nil
	}
	if err := m.refreshLocked(ctx); err != nil {
		return "", err
	}
	return m.accessToken, nil
}

// Tenants returns the tenant connections authorized for the current
// session, refreshing the session first if needed. The list is cached
// and re-fetched after every refresh.
func (m *SessionManager) Tenants(ctx context.Context) ([]sync.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken == "" || !time.Now().Before(m.expiresAt) {
		if err := m.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	if m.tenants == nil {
		tenants, err := m.fetchTenantsLocked(ctx)
		if err != nil {
			return nil, err
		}
		m.tenants = tenants
	}
	out := make([]sync.Tenant, len(m.tenants))
	copy(out, m.tenants)
	return out, nil
}

// Invalidate drops the cached access token so the next call refreshes.
// Used after a remote 401 on a token believed to be valid.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.expiresAt = time.Time{}
}

// Logout clears the session and the persisted refresh token. A new
// operator consent flow is required before the next remote call.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.expiresAt = time.Time{}
	m.tenants = nil
	return m.store.Clear(ctx)
}

// refreshLocked performs one refresh grant. Callers must hold mu.
// The rotated refresh token is persisted before the new access token
// becomes visible, so a crash between the two never strands a session
// with a spent token.
func (m *SessionManager) refreshLocked(ctx context.Context) error {
	refreshToken, err := m.store.LoadRefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("load refresh token: %w", err)
	}
	if refreshToken == "" {
		return sync.ErrUnauthenticated
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := m.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		m.logger.Warn("remote session refresh failed", zap.Error(err))
		return sync.ErrUnauthenticated.WithDetails(err.Error())
	}

	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		if err := m.store.SaveRefreshToken(ctx, token.RefreshToken); err != nil {
			return fmt.Errorf("persist rotated refresh token: %w", err)
		}
	}

	m.accessToken = token.AccessToken
	m.expiresAt = token.Expiry.Add(-expirySlack)
	m.tenants = nil

	m.logger.Info("remote session refreshed",
		zap.Time("expires_at", token.Expiry))
	return nil
}

// connectionDTO is one entry of the connections endpoint response
type connectionDTO struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

func (m *SessionManager) fetchTenantsLocked(ctx context.Context) ([]sync.Tenant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.connectionsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build connections request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, sync.ErrRemoteUnavailable.WithDetails(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, sync.ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, sync.ErrRemoteUnavailable.WithDetails(fmt.Sprintf("connections endpoint returned %d", resp.StatusCode))
	}

	var dtos []connectionDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, sync.ErrRemoteInvalidResponse.WithDetails(err.Error())
	}

	tenants := make([]sync.Tenant, 0, len(dtos))
	for _, dto := range dtos {
		tenants = append(tenants, sync.Tenant{ID: dto.TenantID, Name: dto.TenantName})
	}
	return tenants, nil
}
