package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsgw "github.com/evalladares-t/transaction-service/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// balancePatch is the body of a balance PATCH call. Only the available
// balance is client-settable; everything else belongs to the remote service.
type balancePatch struct {
	AmountAvailable decimal.Decimal `json:"amountAvailable"`
}

// AccountGateway is the REST client for the externally-owned account service.
type AccountGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewAccountGateway creates the account service client.
func NewAccountGateway(baseURL string, timeout time.Duration) *AccountGateway {
	return &AccountGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ portsgw.AccountGateway = (*AccountGateway)(nil)

// FetchAccount retrieves an account snapshot, or apperrors.ErrNotFound when
// the remote has no such account.
func (g *AccountGateway) FetchAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	if err := g.getJSON(ctx, g.baseURL+"/v1/accounts/"+accountID, &account); err != nil {
		return nil, err
	}
	if account.AccountID == "" {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

// ListAccounts retrieves all accounts known to the account service.
func (g *AccountGateway) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := g.getJSON(ctx, g.baseURL+"/v1/accounts/", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// PatchAccountBalance sets the account's available balance and returns the
// updated snapshot.
func (g *AccountGateway) PatchAccountBalance(ctx context.Context, accountID string, amountAvailable decimal.Decimal) (*domain.Account, error) {
	var account domain.Account
	err := patchJSON(ctx, g.httpClient, g.baseURL+"/v1/accounts/"+accountID, balancePatch{AmountAvailable: amountAvailable}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (g *AccountGateway) getJSON(ctx context.Context, url string, out any) error {
	return getJSON(ctx, g.httpClient, url, out)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func patchJSON(ctx context.Context, client *http.Client, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal patch body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: remote returned status %d", apperrors.ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("remote rejected request with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", apperrors.ErrRemoteUnavailable, err)
	}
	if len(data) == 0 {
		return apperrors.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
