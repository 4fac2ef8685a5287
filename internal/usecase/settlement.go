package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/wildfire-market/checkout/internal/adapter/wallet"
	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/domain/repository"
	"github.com/wildfire-market/checkout/internal/pkg/abi"
	"github.com/wildfire-market/checkout/internal/pkg/token"
)

// SettlementAddresses are the fixed on-chain addresses settlement depends on.
type SettlementAddresses struct {
	Recipient    string
	StableToken  string
	ProjectToken string
}

// SettlementEngine submits approval and transfer transactions for an order.
// The per-session settlement status is the state machine; transitions go
// through the session repository's compare-and-set update, which rejects a
// second attempt while one is in flight. Wallet calls are awaited one at a
// time, never dispatched in parallel.
type SettlementEngine struct {
	provider  wallet.Provider
	calc      *token.Calculator
	sessions  repository.SessionRepository
	orders    repository.OrderRepository
	addresses SettlementAddresses
	logger    *slog.Logger
}

// NewSettlementEngine constructs SettlementEngine.
func NewSettlementEngine(
	provider wallet.Provider,
	calc *token.Calculator,
	sessions repository.SessionRepository,
	orders repository.OrderRepository,
	addresses SettlementAddresses,
	logger *slog.Logger,
) *SettlementEngine {
	return &SettlementEngine{
		provider:  provider,
		calc:      calc,
		sessions:  sessions,
		orders:    orders,
		addresses: addresses,
		logger:    logger,
	}
}

// TokenAddress resolves the contract address for a settlement currency. An
// empty request-level token address falls back to the well-known stable
// token contract, as the storefront does.
func (e *SettlementEngine) TokenAddress(req model.PaymentRequest) (string, error) {
	if req.TokenAddress != "" {
		return req.TokenAddress, nil
	}
	switch req.Currency {
	case model.CurrencyUSDC:
		return e.addresses.StableToken, nil
	case model.CurrencyWFT:
		return e.addresses.ProjectToken, nil
	default:
		return "", domainErrors.ErrInvalidCurrency
	}
}

// RequiredAmount returns the smallest-unit amount the allowance must cover
// for the request.
func (e *SettlementEngine) RequiredAmount(req model.PaymentRequest) *big.Int {
	return e.calc.SmallestUnit(req.Amount, req.Currency)
}

// Approve submits an unlimited (max uint256) approval for the merchant
// address, the approve-once-reuse policy. On success the session returns to
// idle with the approved flag set; the order itself does not advance.
func (e *SettlementEngine) Approve(ctx context.Context, sessionID string, req model.PaymentRequest) error {
	if req.Payer == "" {
		return domainErrors.ErrWalletRequired
	}
	tokenAddress, err := e.TokenAddress(req)
	if err != nil {
		return err
	}
	if err := validAddresses(req.Payer, req.Recipient, tokenAddress); err != nil {
		return err
	}

	if err := e.transition(ctx, sessionID, model.SettlementApproving); err != nil {
		return err
	}

	hash, err := e.submit(ctx, req.Payer, tokenAddress, func() (string, error) {
		return abi.EncodeUnlimitedApprove(req.Recipient)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrProviderUnavailable) {
			// Nothing was submitted; fall back to idle so the user can retry
			// after connecting a wallet.
			if terr := e.sessions.TransitionSettlement(ctx, sessionID, model.SettlementApproving, model.SettlementIdle); terr != nil {
				return terr
			}
			return err
		}
		if terr := e.sessions.TransitionSettlement(ctx, sessionID, model.SettlementApproving, model.SettlementFailed); terr != nil {
			return terr
		}
		return fmt.Errorf("%w: %v", domainErrors.ErrApprovalFailed, err)
	}

	if err := e.sessions.TransitionSettlement(ctx, sessionID, model.SettlementApproving, model.SettlementIdle); err != nil {
		return err
	}
	if err := e.sessions.SetApproved(ctx, sessionID, true); err != nil {
		return err
	}

	e.logger.Info("approval transaction submitted",
		slog.String("order", req.OrderNumber),
		slog.String("tx_hash", hash),
	)
	return nil
}

// SendPayment submits the transfer transaction. The order is marked
// processing before the provider resolves so duplicate submissions can be
// blocked; on success the transaction hash is returned and the caller
// finalizes the order.
func (e *SettlementEngine) SendPayment(ctx context.Context, sessionID string, req model.PaymentRequest) (string, error) {
	if req.Payer == "" {
		return "", domainErrors.ErrWalletRequired
	}
	tokenAddress, err := e.TokenAddress(req)
	if err != nil {
		return "", err
	}
	if err := validAddresses(req.Payer, req.Recipient, tokenAddress); err != nil {
		return "", err
	}

	order, err := e.orders.GetByNumber(ctx, req.OrderNumber)
	if err != nil {
		return "", err
	}

	if err := e.transition(ctx, sessionID, model.SettlementSending); err != nil {
		return "", err
	}

	if err := e.orders.UpdateStatus(ctx, order.ID, model.OrderStatusProcessing); err != nil {
		return "", err
	}

	amount := e.calc.SmallestUnit(req.Amount, req.Currency)
	hash, err := e.submit(ctx, req.Payer, tokenAddress, func() (string, error) {
		return abi.EncodeTransfer(req.Recipient, amount)
	})
	if err != nil {
		if terr := e.sessions.TransitionSettlement(ctx, sessionID, model.SettlementSending, model.SettlementFailed); terr != nil {
			return "", terr
		}
		if serr := e.orders.UpdateStatus(ctx, order.ID, model.OrderStatusFailed); serr != nil {
			return "", serr
		}
		if errors.Is(err, domainErrors.ErrProviderUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domainErrors.ErrTransferFailed, err)
	}

	if err := e.sessions.TransitionSettlement(ctx, sessionID, model.SettlementSending, model.SettlementCompleted); err != nil {
		return "", err
	}

	e.logger.Info("transfer transaction submitted",
		slog.String("order", req.OrderNumber),
		slog.String("tx_hash", hash),
	)
	return hash, nil
}

// validAddresses rejects malformed addresses before any state transition, so
// an encoding-contract violation never leaves the session failed.
func validAddresses(addrs ...string) error {
	for _, addr := range addrs {
		if !abi.ValidAddress(addr) {
			return fmt.Errorf("%w: %q", abi.ErrMalformedAddress, addr)
		}
	}
	return nil
}

// transition moves the session into an in-flight settlement state, rejecting
// re-entry while another attempt is active.
func (e *SettlementEngine) transition(ctx context.Context, sessionID string, to model.SettlementStatus) error {
	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.SettlementInFlight() {
		return domainErrors.ErrSettlementInProgress
	}
	if !model.CanSettle(session.Settlement, to) {
		return domainErrors.ErrInvalidTransition
	}
	return e.sessions.TransitionSettlement(ctx, sessionID, session.Settlement, to)
}

// submit runs the fixed wallet sequence: request access, log the chain, build
// the payload, send the transaction. Each call completes before the next one
// starts.
func (e *SettlementEngine) submit(ctx context.Context, from, to string, buildData func() (string, error)) (string, error) {
	if _, err := e.provider.RequestAccess(ctx); err != nil {
		return "", err
	}

	if chainID, err := e.provider.ChainID(ctx); err == nil {
		e.logger.Info("connected to chain", slog.String("chain_id", chainID))
	}

	data, err := buildData()
	if err != nil {
		return "", err
	}

	return e.provider.SendTransaction(ctx, from, to, data)
}
