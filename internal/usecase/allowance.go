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
	"github.com/wildfire-market/checkout/internal/pkg/abi"
)

// AllowanceUseCase queries the chain for the payer's current spending
// allowance. Failures are fail-safe: callers treat any error as "approval
// required" rather than skipping the approval step.
type AllowanceUseCase struct {
	provider wallet.Provider
	logger   *slog.Logger
}

// NewAllowanceUseCase constructs AllowanceUseCase.
func NewAllowanceUseCase(provider wallet.Provider, logger *slog.Logger) *AllowanceUseCase {
	return &AllowanceUseCase{provider: provider, logger: logger}
}

// Check reads the current allowance granted by payer to spender on the token
// contract and compares it against the required smallest-unit amount.
func (u *AllowanceUseCase) Check(ctx context.Context, payer, tokenAddress, spender string, required *big.Int) (*model.AllowanceRecord, error) {
	if _, err := u.provider.RequestAccess(ctx); err != nil {
		if errors.Is(err, domainErrors.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrAllowanceQueryFailed, err)
	}

	if chainID, err := u.provider.ChainID(ctx); err == nil {
		u.logger.Info("connected to chain", slog.String("chain_id", chainID))
	}

	data, err := abi.EncodeAllowance(payer, spender)
	if err != nil {
		return nil, err
	}

	result, err := u.provider.Call(ctx, tokenAddress, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrAllowanceQueryFailed, err)
	}

	allowance, err := abi.ParseQuantity(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrAllowanceQueryFailed, err)
	}

	return &model.AllowanceRecord{
		Payer:     payer,
		Spender:   spender,
		Allowance: allowance,
		Required:  required,
	}, nil
}
