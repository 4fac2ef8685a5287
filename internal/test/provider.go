package test

import (
	"context"
	"sync"
)

// ProviderCall records one wallet-provider invocation.
type ProviderCall struct {
	Method string
	From   string
	To     string
	Data   string
}

// ProviderStub is a scripted wallet provider. Responses default to success;
// individual functions can be overridden per test.
type ProviderStub struct {
	mu    sync.Mutex
	calls []ProviderCall

	Accounts        []string
	Chain           string
	RequestAccessFn func(ctx context.Context) ([]string, error)
	CallFn          func(ctx context.Context, to, data string) (string, error)
	SendFn          func(ctx context.Context, from, to, data string) (string, error)
}

func (p *ProviderStub) record(call ProviderCall) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

// Calls returns the recorded invocations in order.
func (p *ProviderStub) Calls() []ProviderCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ProviderCall(nil), p.calls...)
}

func (p *ProviderStub) RequestAccess(ctx context.Context) ([]string, error) {
	p.record(ProviderCall{Method: "eth_requestAccounts"})
	if p.RequestAccessFn != nil {
		return p.RequestAccessFn(ctx)
	}
	if p.Accounts != nil {
		return p.Accounts, nil
	}
	return []string{"0x1111111111111111111111111111111111111111"}, nil
}

func (p *ProviderStub) ChainID(context.Context) (string, error) {
	p.record(ProviderCall{Method: "eth_chainId"})
	if p.Chain != "" {
		return p.Chain, nil
	}
	return "0x1", nil
}

func (p *ProviderStub) Call(ctx context.Context, to, data string) (string, error) {
	p.record(ProviderCall{Method: "eth_call", To: to, Data: data})
	if p.CallFn != nil {
		return p.CallFn(ctx, to, data)
	}
	return "0x0", nil
}

func (p *ProviderStub) SendTransaction(ctx context.Context, from, to, data string) (string, error) {
	p.record(ProviderCall{Method: "eth_sendTransaction", From: from, To: to, Data: data})
	if p.SendFn != nil {
		return p.SendFn(ctx, from, to, data)
	}
	return "0xabc123", nil
}
