package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// FieldErrors maps customer-info field names to validation messages. All
// failing fields are collected so they surface together.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	walletPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// NormalizeCustomerInfo trims surrounding whitespace from every field.
func NormalizeCustomerInfo(info model.CustomerInfo) model.CustomerInfo {
	return model.CustomerInfo{
		Name:          strings.TrimSpace(info.Name),
		Email:         strings.TrimSpace(info.Email),
		WalletAddress: strings.TrimSpace(info.WalletAddress),
		Telegram:      strings.TrimSpace(info.Telegram),
		XHandle:       strings.TrimSpace(info.XHandle),
		Discord:       strings.TrimSpace(info.Discord),
	}
}

// ValidateCustomerInfo checks the customer-info step. A wallet address may be
// omitted only when a wallet is already connected for the session.
func ValidateCustomerInfo(info model.CustomerInfo, walletConnected bool) FieldErrors {
	info = NormalizeCustomerInfo(info)
	errs := FieldErrors{}

	if info.Name == "" {
		errs["name"] = "Name is required"
	}

	if info.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(info.Email) {
		errs["email"] = "Email is invalid"
	}

	if info.WalletAddress == "" && !walletConnected {
		errs["wallet"] = "Wallet address is required"
	} else if info.WalletAddress != "" && !walletPattern.MatchString(info.WalletAddress) {
		errs["wallet"] = "Wallet address is invalid"
	}

	if !info.HasSocialContact() {
		errs["social"] = "At least one social media contact is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
