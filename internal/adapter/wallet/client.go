package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// RPCError is a JSON-RPC level failure returned by the wallet bridge, e.g. a
// user rejecting the transaction in their wallet.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

// RPCClient implements Provider over the wallet bridge's JSON-RPC endpoint.
type RPCClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	nextID     atomic.Int64
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type transactionParams struct {
	From string `json:"from"`
	To   string `json:"to"`
	Data string `json:"data"`
}

// NewRPCClient creates a wallet RPC client with default timeout.
func NewRPCClient(endpoint string, logger *slog.Logger) (*RPCClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse wallet rpc url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("wallet rpc url must be absolute")
	}
	return &RPCClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// RequestAccess invokes eth_requestAccounts.
func (c *RPCClient) RequestAccess(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := c.invoke(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ChainID invokes eth_chainId.
func (c *RPCClient) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := c.invoke(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

// Call invokes eth_call against the latest block.
func (c *RPCClient) Call(ctx context.Context, to, data string) (string, error) {
	var result string
	params := []any{callParams{To: to, Data: data}, "latest"}
	if err := c.invoke(ctx, "eth_call", params, &result); err != nil {
		return "", err
	}
	return result, nil
}

// SendTransaction invokes eth_sendTransaction and returns the transaction hash.
func (c *RPCClient) SendTransaction(ctx context.Context, from, to, data string) (string, error) {
	var hash string
	params := []any{transactionParams{From: from, To: to, Data: data}}
	if err := c.invoke(ctx, "eth_sendTransaction", params, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *RPCClient) invoke(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("wallet rpc request failed",
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("wallet rpc error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return *rpcResp.Error
	}
	return json.Unmarshal(rpcResp.Result, result)
}
