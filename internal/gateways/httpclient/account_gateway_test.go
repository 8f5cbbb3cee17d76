package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	"github.com/evalladares-t/transaction-service/internal/gateways/httpclient"
)

const testTimeout = 5 * time.Second

func TestFetchAccount_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/accounts/acc-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":              "acc-1",
			"accountType":     "SAVING",
			"amountAvailable": "250.50",
			"active":          true,
		})
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	account, err := gw.FetchAccount(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.AccountID)
	assert.Equal(t, domain.Saving, account.AccountType)
	assert.True(t, account.AmountAvailable.Equal(decimal.RequireFromString("250.50")))
	assert.True(t, account.Active)
}

func TestFetchAccount_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	_, err := gw.FetchAccount(context.Background(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFetchAccount_EmptyBodyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	_, err := gw.FetchAccount(context.Background(), "acc-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFetchAccount_ServerErrorIsRemoteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	_, err := gw.FetchAccount(context.Background(), "acc-1")

	assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
}

func TestFetchAccount_ConnectionRefusedIsRemoteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	_, err := gw.FetchAccount(context.Background(), "acc-1")

	assert.ErrorIs(t, err, apperrors.ErrRemoteUnavailable)
}

func TestListAccounts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "acc-1", "accountType": "CURRENT", "active": true},
			{"id": "acc-2", "accountType": "SAVING", "active": false},
		})
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	accounts, err := gw.ListAccounts(context.Background())

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].AccountID)
	assert.Equal(t, domain.Current, accounts[0].AccountType)
	assert.False(t, accounts[1].Active)
}

func TestPatchAccountBalance_SendsPatchBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/accounts/acc-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "amountAvailable")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":              "acc-1",
			"accountType":     "CURRENT",
			"amountAvailable": "300",
			"active":          true,
		})
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	account, err := gw.PatchAccountBalance(context.Background(), "acc-1", decimal.NewFromInt(300))

	require.NoError(t, err)
	assert.True(t, account.AmountAvailable.Equal(decimal.NewFromInt(300)))
}

func TestPatchAccountBalance_ClientErrorIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	gw := httpclient.NewAccountGateway(server.URL, testTimeout)
	_, err := gw.PatchAccountBalance(context.Background(), "acc-1", decimal.NewFromInt(300))

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
