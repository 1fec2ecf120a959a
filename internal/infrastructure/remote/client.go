package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// maxResponseBytes bounds how much of a remote response body is read
const maxResponseBytes = 4 << 20

// tenantHeader scopes every resource call to one remote tenant
const tenantHeader = "X-Tenant-Id"

// Client is the HTTP adapter for the remote accounting platform.
// It implements sync.RemoteLedger on top of the SessionManager.
type Client struct {
	baseURL    string
	session    *SessionManager
	httpClient *http.Client
	logger     *zap.Logger
}

var _ sync.RemoteLedger = (*Client)(nil)

// NewClient creates a remote ledger client
func NewClient(cfg *Config, session *SessionManager, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("remote: session manager is required")
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// do executes one authenticated request against the remote API. On a
// 401 the cached access token is invalidated and the request is retried
// exactly once with a fresh token; a second 401 surfaces as
// sync.ErrUnauthenticated.
func (c *Client) do(ctx context.Context, method, path, tenantID string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	retried := false
	for {
		token, err := c.session.Token(ctx)
		if err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(tenantHeader, tenantID)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return sync.ErrRemoteUnavailable.WithDetails(err.Error())
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			resp.Body.Close()
			retried = true
			c.session.Invalidate()
			continue
		}

		err = c.handleResponse(resp, out)
		resp.Body.Close()
		if err != nil {
			c.logger.Debug("remote request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Error(err))
		}
		return err
	}
}

func (c *Client) handleResponse(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
			return sync.ErrRemoteInvalidResponse.WithDetails(err.Error())
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return sync.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return sync.ErrRemoteNotFound
	case resp.StatusCode == http.StatusConflict:
		return sync.ErrRemoteConflict
	case resp.StatusCode == http.StatusTooManyRequests:
		return sync.ErrRemoteRateLimited
	case resp.StatusCode >= 500:
		return sync.ErrRemoteUnavailable.WithDetails(fmt.Sprintf("remote returned %d", resp.StatusCode))
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return sync.ErrRemoteRequestFailed.WithDetails(fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}
}

// --- Contacts ---------------------------------------------------------------

func (c *Client) GetContact(ctx context.Context, tenantID, ref string) (*sync.RemoteContact, error) {
	var dto contactDTO
	if err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(ref), tenantID, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) FindContactByEmail(ctx context.Context, tenantID, email string) (*sync.RemoteContact, error) {
	var dtos []contactDTO
	path := "/contacts?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, sync.ErrRemoteNotFound
	}
	return dtos[0].toDomain(), nil
}

func (c *Client) UpsertContact(ctx context.Context, tenantID string, contact *sync.RemoteContact) (*sync.RemoteContact, error) {
	var dto contactDTO
	if err := c.do(ctx, http.MethodPost, "/contacts", tenantID, contactFromDomain(contact), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// --- Invoices ---------------------------------------------------------------

func (c *Client) GetInvoice(ctx context.Context, tenantID, ref string) (*sync.RemoteInvoice, error) {
	var dto invoiceDTO
	if err := c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(ref), tenantID, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) UpsertInvoice(ctx context.Context, tenantID string, invoice *sync.RemoteInvoice) (*sync.RemoteInvoice, error) {
	var dto invoiceDTO
	if err := c.do(ctx, http.MethodPost, "/invoices", tenantID, invoiceFromDomain(invoice), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// --- Quotes -----------------------------------------------------------------

func (c *Client) GetQuote(ctx context.Context, tenantID, ref string) (*sync.RemoteQuote, error) {
	var dto quoteDTO
	if err := c.do(ctx, http.MethodGet, "/quotes/"+url.PathEscape(ref), tenantID, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) UpsertQuote(ctx context.Context, tenantID string, quote *sync.RemoteQuote) (*sync.RemoteQuote, error) {
	var dto quoteDTO
	if err := c.do(ctx, http.MethodPost, "/quotes", tenantID, quoteFromDomain(quote), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// --- Catalog ----------------------------------------------------------------

func (c *Client) GetAccountByCode(ctx context.Context, tenantID, code string) (*sync.RemoteAccount, error) {
	var dtos []accountDTO
	path := "/accounts?code=" + url.QueryEscape(code)
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, sync.ErrRemoteNotFound
	}
	account := dtos[0].toDomain()
	return &account, nil
}

func (c *Client) ListAccounts(ctx context.Context, tenantID string, activeOnly bool) ([]sync.RemoteAccount, error) {
	path := "/accounts"
	if activeOnly {
		path += "?status=ACTIVE"
	}
	var dtos []accountDTO
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	accounts := make([]sync.RemoteAccount, 0, len(dtos))
	for _, dto := range dtos {
		accounts = append(accounts, dto.toDomain())
	}
	return accounts, nil
}

func (c *Client) GetTaxRateByType(ctx context.Context, tenantID, typeName string) (*sync.RemoteTaxRate, error) {
	var dtos []taxRateDTO
	path := "/taxrates?taxType=" + url.QueryEscape(typeName)
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, sync.ErrRemoteNotFound
	}
	rate := dtos[0].toDomain()
	return &rate, nil
}

func (c *Client) ListTaxRates(ctx context.Context, tenantID string, activeOnly bool) ([]sync.RemoteTaxRate, error) {
	path := "/taxrates"
	if activeOnly {
		path += "?status=ACTIVE"
	}
	var dtos []taxRateDTO
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	rates := make([]sync.RemoteTaxRate, 0, len(dtos))
	for _, dto := range dtos {
		rates = append(rates, dto.toDomain())
	}
	return rates, nil
}

func (c *Client) GetItemByCode(ctx context.Context, tenantID, code string) (*sync.RemoteItem, error) {
	var dtos []itemDTO
	path := "/items?code=" + url.QueryEscape(code)
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, sync.ErrRemoteNotFound
	}
	item := dtos[0].toDomain()
	return &item, nil
}

func (c *Client) ListItems(ctx context.Context, tenantID string, activeOnly bool) ([]sync.RemoteItem, error) {
	path := "/items"
	if activeOnly {
		path += "?isActive=true"
	}
	var dtos []itemDTO
	if err := c.do(ctx, http.MethodGet, path, tenantID, nil, &dtos); err != nil {
		return nil, err
	}
	items := make([]sync.RemoteItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, dto.toDomain())
	}
	return items, nil
}

// --- Projects ---------------------------------------------------------------

func (c *Client) UpsertProject(ctx context.Context, tenantID string, project *sync.RemoteProject) (*sync.RemoteProject, error) {
	var dto projectDTO
	if err := c.do(ctx, http.MethodPost, "/projects", tenantID, projectFromDomain(project), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}
