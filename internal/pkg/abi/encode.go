package abi

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// ERC-20 function selectors used by the settlement flow.
const (
	SelectorAllowance = "0xdd62ed3e" // allowance(address,address)
	SelectorApprove   = "0x095ea7b3" // approve(address,uint256)
	SelectorTransfer  = "0xa9059cbb" // transfer(address,uint256)
)

// wordHexLen is the length of one ABI word (32 bytes) in hex characters.
const wordHexLen = 64

var (
	// ErrMalformedAddress indicates an argument that is not a 0x-prefixed
	// 20-byte hex address. This is a programming-contract violation: callers
	// must validate addresses before encoding.
	ErrMalformedAddress = errors.New("malformed address")
	// ErrInvalidAmount indicates a nil, negative or oversized uint256 amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMalformedQuantity indicates an unparsable hex quantity in a call result.
	ErrMalformedQuantity = errors.New("malformed hex quantity")
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// MaxUint256 returns the maximum representable uint256, used for the
// unlimited-approval policy.
func MaxUint256() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// padAddress encodes an address as its 20-byte value left-padded to 32 bytes.
func padAddress(addr string) (string, error) {
	if !ValidAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrMalformedAddress, addr)
	}
	return strings.Repeat("0", wordHexLen-40) + strings.ToLower(addr[2:]), nil
}

// padUint encodes a non-negative integer as big-endian hex left-padded to 32 bytes.
func padUint(amount *big.Int) (string, error) {
	if amount == nil || amount.Sign() < 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	hex := amount.Text(16)
	if len(hex) > wordHexLen {
		return "", fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	return strings.Repeat("0", wordHexLen-len(hex)) + hex, nil
}

// EncodeAllowance builds call data for allowance(owner, spender).
func EncodeAllowance(owner, spender string) (string, error) {
	return encode(SelectorAllowance, address(owner), address(spender))
}

// EncodeApprove builds call data for approve(spender, amount).
func EncodeApprove(spender string, amount *big.Int) (string, error) {
	return encode(SelectorApprove, address(spender), uint256(amount))
}

// EncodeUnlimitedApprove builds call data approving the maximum uint256.
func EncodeUnlimitedApprove(spender string) (string, error) {
	return EncodeApprove(spender, MaxUint256())
}

// EncodeTransfer builds call data for transfer(recipient, amount).
func EncodeTransfer(recipient string, amount *big.Int) (string, error) {
	return encode(SelectorTransfer, address(recipient), uint256(amount))
}

type argument func() (string, error)

func address(addr string) argument {
	return func() (string, error) { return padAddress(addr) }
}

func uint256(amount *big.Int) argument {
	return func() (string, error) { return padUint(amount) }
}

// encode concatenates the selector with ABI-padded arguments. Output length is
// always len(selector) + 64 hex characters per argument.
func encode(selector string, args ...argument) (string, error) {
	var b strings.Builder
	b.WriteString(selector)
	for _, arg := range args {
		word, err := arg()
		if err != nil {
			return "", err
		}
		b.WriteString(word)
	}
	return b.String(), nil
}

// DecodeAddress recovers the 0x-prefixed address from an ABI-padded word.
func DecodeAddress(word string) (string, error) {
	if len(word) != wordHexLen {
		return "", fmt.Errorf("%w: word length %d", ErrMalformedAddress, len(word))
	}
	return "0x" + word[wordHexLen-40:], nil
}

// ParseQuantity parses a hex quantity returned by a read-only contract call.
func ParseQuantity(hex string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedQuantity, hex)
	}
	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedQuantity, hex)
	}
	return value, nil
}
