package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type rpcCall struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

func newRPCServer(t *testing.T, calls *[]rpcCall, respond func(method string) (any, *RPCError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		var call rpcCall
		if err := json.Unmarshal(body, &call); err != nil {
			t.Fatalf("failed to decode rpc request: %v", err)
		}
		if calls != nil {
			*calls = append(*calls, call)
		}
		result, rpcErr := respond(call.Method)
		resp := map[string]any{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewRPCClientValidatesURL(t *testing.T) {
	if _, err := NewRPCClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewRPCClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestRPCClientRequestAccess(t *testing.T) {
	var calls []rpcCall
	srv := newRPCServer(t, &calls, func(string) (any, *RPCError) {
		return []string{"0x1111111111111111111111111111111111111111"}, nil
	})
	defer srv.Close()

	client, err := NewRPCClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	accounts, err := client.RequestAccess(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("unexpected accounts %v", accounts)
	}
	if len(calls) != 1 || calls[0].Method != "eth_requestAccounts" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestRPCClientCallSendsLatestBlock(t *testing.T) {
	var calls []rpcCall
	srv := newRPCServer(t, &calls, func(string) (any, *RPCError) {
		return "0x5f5e100", nil
	})
	defer srv.Close()

	client, _ := NewRPCClient(srv.URL, testLogger())
	result, err := client.Call(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "0xdd62ed3e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "0x5f5e100" {
		t.Fatalf("unexpected result %s", result)
	}
	if len(calls) != 1 || calls[0].Method != "eth_call" {
		t.Fatalf("unexpected calls %v", calls)
	}
	if len(calls[0].Params) != 2 || calls[0].Params[1] != "latest" {
		t.Fatalf("expected latest block param, got %v", calls[0].Params)
	}
}

func TestRPCClientSendTransaction(t *testing.T) {
	var calls []rpcCall
	srv := newRPCServer(t, &calls, func(string) (any, *RPCError) {
		return "0xabc123", nil
	})
	defer srv.Close()

	client, _ := NewRPCClient(srv.URL, testLogger())
	hash, err := client.SendTransaction(context.Background(), "0xfrom", "0xto", "0xdata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != "0xabc123" {
		t.Fatalf("unexpected hash %s", hash)
	}
	params, ok := calls[0].Params[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected params %v", calls[0].Params)
	}
	if params["from"] != "0xfrom" || params["to"] != "0xto" || params["data"] != "0xdata" {
		t.Fatalf("unexpected transaction params %v", params)
	}
}

func TestRPCClientSurfacesRPCError(t *testing.T) {
	srv := newRPCServer(t, nil, func(string) (any, *RPCError) {
		return nil, &RPCError{Code: 4001, Message: "user rejected"}
	})
	defer srv.Close()

	client, _ := NewRPCClient(srv.URL, testLogger())
	_, err := client.SendTransaction(context.Background(), "0xfrom", "0xto", "0xdata")
	var rpcErr RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %v", err)
	}
	if rpcErr.Code != 4001 {
		t.Fatalf("unexpected code %d", rpcErr.Code)
	}
}

func TestRPCClientHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewRPCClient(srv.URL, testLogger())
	if _, err := client.ChainID(context.Background()); err == nil {
		t.Fatal("expected error from server failure")
	}
}

func TestUnavailableProvider(t *testing.T) {
	provider := Unavailable{}
	ctx := context.Background()

	if _, err := provider.RequestAccess(ctx); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if _, err := provider.ChainID(ctx); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if _, err := provider.Call(ctx, "", ""); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if _, err := provider.SendTransaction(ctx, "", "", ""); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
