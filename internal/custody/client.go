package custody

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/meridianpay/wallet-platform-backend/internal/serve/httpclient"
)

const (
	pingPath     = "/ping"
	accountPath  = "/v1/accounts"
	transferPath = "/v1/transfers"
	feePath      = "/v1/fees/estimate"
	ratePath     = "/v1/rates"
)

// ClientInterface defines the interface for interacting with the custody platform API.
type ClientInterface interface {
	Ping(ctx context.Context) (bool, error)
	PostAccount(ctx context.Context, accountReq AccountRequest) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountTransactions(ctx context.Context, accountID string, page, pageSize int) (*TransactionPage, error)
	PostTransfer(ctx context.Context, transferReq TransferRequest) (*Transfer, error)
	GetTransferByID(ctx context.Context, id string) (*Transfer, error)
	EstimateFee(ctx context.Context, feeReq FeeRequest) (*Fee, error)
	GetExchangeRate(ctx context.Context, baseAsset, quoteAsset string) (*Rate, error)
}

// Client provides methods to interact with the custody platform API.
type Client struct {
	BasePath   string
	APIKey     string
	httpClient httpclient.HTTPClientInterface
}

// NewClient creates a new custody platform Client.
func NewClient(env Environment, apiKey string) *Client {
	return &Client{
		BasePath:   string(env),
		APIKey:     apiKey,
		httpClient: httpclient.DefaultClient(),
	}
}

// Ping checks that the custody platform is reachable.
func (client *Client) Ping(ctx context.Context) (bool, error) {
	u, err := url.JoinPath(client.BasePath, pingPath)
	if err != nil {
		return false, fmt.Errorf("building path: %w", err)
	}

	resp, err := client.request(ctx, u, http.MethodGet, false, nil)
	if err != nil {
		return false, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pingResp struct {
		Message string `json:"message"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&pingResp); err != nil {
		return false, err
	}

	if pingResp.Message == "pong" {
		return true, nil
	}

	return false, fmt.Errorf("unexpected response message: %s", pingResp.Message)
}

// PostAccount provisions a new custody account.
func (client *Client) PostAccount(ctx context.Context, accountReq AccountRequest) (*Account, error) {
	if err := accountReq.validate(); err != nil {
		return nil, fmt.Errorf("validating account request: %w", err)
	}

	u, err := url.JoinPath(client.BasePath, accountPath)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	accountReq.IdempotencyKey = uuid.NewString()
	accountData, err := json.Marshal(accountReq)
	if err != nil {
		return nil, err
	}

	resp, err := client.request(ctx, u, http.MethodPost, true, bytes.NewBuffer(accountData))
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Account](resp)
}

// GetAccountByID retrieves a custody account by its ID.
func (client *Client) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	u, err := url.JoinPath(client.BasePath, accountPath, id)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	resp, err := client.request(ctx, u, http.MethodGet, true, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Account](resp)
}

// GetAccountTransactions retrieves one page of the account's transaction
// history. Pages are 1-based.
func (client *Client) GetAccountTransactions(ctx context.Context, accountID string, page, pageSize int) (*TransactionPage, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID must be provided")
	}

	u, err := url.JoinPath(client.BasePath, accountPath, accountID, "transactions")
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	u = u + "?" + q.Encode()

	resp, err := client.request(ctx, u, http.MethodGet, true, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapAPIError(resp)
	}

	defer resp.Body.Close()
	var txPage TransactionPage
	if err = json.NewDecoder(resp.Body).Decode(&txPage); err != nil {
		return nil, fmt.Errorf("decoding transaction page: %w", err)
	}

	return &txPage, nil
}

// PostTransfer submits a new transfer.
func (client *Client) PostTransfer(ctx context.Context, transferReq TransferRequest) (*Transfer, error) {
	if err := transferReq.validate(); err != nil {
		return nil, fmt.Errorf("validating transfer request: %w", err)
	}

	u, err := url.JoinPath(client.BasePath, transferPath)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	transferReq.IdempotencyKey = uuid.NewString()
	transferData, err := json.Marshal(transferReq)
	if err != nil {
		return nil, err
	}

	resp, err := client.request(ctx, u, http.MethodPost, true, bytes.NewBuffer(transferData))
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Transfer](resp)
}

// GetTransferByID retrieves a transfer by its ID.
func (client *Client) GetTransferByID(ctx context.Context, id string) (*Transfer, error) {
	u, err := url.JoinPath(client.BasePath, transferPath, id)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	resp, err := client.request(ctx, u, http.MethodGet, true, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Transfer](resp)
}

// EstimateFee asks the platform for the network fee of a prospective transfer.
func (client *Client) EstimateFee(ctx context.Context, feeReq FeeRequest) (*Fee, error) {
	if err := feeReq.validate(); err != nil {
		return nil, fmt.Errorf("validating fee request: %w", err)
	}

	u, err := url.JoinPath(client.BasePath, feePath)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	feeData, err := json.Marshal(feeReq)
	if err != nil {
		return nil, err
	}

	resp, err := client.request(ctx, u, http.MethodPost, true, bytes.NewBuffer(feeData))
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Fee](resp)
}

// GetExchangeRate retrieves the current exchange rate between two assets.
func (client *Client) GetExchangeRate(ctx context.Context, baseAsset, quoteAsset string) (*Rate, error) {
	if baseAsset == "" || quoteAsset == "" {
		return nil, fmt.Errorf("base and quote assets must be provided")
	}

	u, err := url.JoinPath(client.BasePath, ratePath, baseAsset, quoteAsset)
	if err != nil {
		return nil, fmt.Errorf("building path: %w", err)
	}

	resp, err := client.request(ctx, u, http.MethodGet, true, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapAPIError(resp)
	}

	return parseResponse[Rate](resp)
}

// request makes an HTTP request to the custody platform API.
func (client *Client) request(ctx context.Context, u string, method string, isAuthed bool, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	if isAuthed {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", client.APIKey))
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return client.httpClient.Do(req)
}

func wrapAPIError(resp *http.Response) error {
	apiError, parseErr := parseAPIError(resp)
	if parseErr != nil {
		return fmt.Errorf("parsing API error: %w", parseErr)
	}
	return fmt.Errorf("API error: %w", apiError)
}

func parseResponse[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()
	var payload struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &payload.Data, nil
}

var _ ClientInterface = (*Client)(nil)
