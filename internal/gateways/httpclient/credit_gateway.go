package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsgw "github.com/evalladares-t/transaction-service/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// CreditGateway is the REST client for the externally-owned credit service.
type CreditGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewCreditGateway creates the credit service client.
func NewCreditGateway(baseURL string, timeout time.Duration) *CreditGateway {
	return &CreditGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ portsgw.CreditGateway = (*CreditGateway)(nil)

// FetchCredit retrieves a credit snapshot, or apperrors.ErrNotFound when the
// remote has no such credit line.
func (g *CreditGateway) FetchCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	var credit domain.Credit
	if err := getJSON(ctx, g.httpClient, g.baseURL+"/v1/credits/"+creditID, &credit); err != nil {
		return nil, err
	}
	if credit.CreditID == "" {
		return nil, fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, creditID)
	}
	return &credit, nil
}

// PatchCreditBalance sets the credit line's available balance and returns the
// updated snapshot.
func (g *CreditGateway) PatchCreditBalance(ctx context.Context, creditID string, amountAvailable decimal.Decimal) (*domain.Credit, error) {
	var credit domain.Credit
	err := patchJSON(ctx, g.httpClient, g.baseURL+"/v1/credits/"+creditID, balancePatch{AmountAvailable: amountAvailable}, &credit)
	if err != nil {
		return nil, err
	}
	return &credit, nil
}
