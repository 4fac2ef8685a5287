package usecase

import (
	"strings"
	"testing"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

func validInfo() model.CustomerInfo {
	return model.CustomerInfo{
		Name:          "Alice",
		Email:         "bob@x.io",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		Telegram:      "alice",
	}
}

func TestValidateCustomerInfoPasses(t *testing.T) {
	if errs := ValidateCustomerInfo(validInfo(), false); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateCustomerInfoName(t *testing.T) {
	info := validInfo()
	info.Name = "  "
	errs := ValidateCustomerInfo(info, false)
	if _, ok := errs["name"]; !ok {
		t.Fatalf("expected name error, got %v", errs)
	}
}

func TestValidateCustomerInfoEmail(t *testing.T) {
	info := validInfo()
	info.Email = "bob"
	errs := ValidateCustomerInfo(info, false)
	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error, got %v", errs)
	}

	info.Email = ""
	errs = ValidateCustomerInfo(info, false)
	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error for empty value, got %v", errs)
	}

	info.Email = "bob@x.io"
	if errs := ValidateCustomerInfo(info, false); errs != nil {
		t.Fatalf("expected valid email to pass, got %v", errs)
	}
}

func TestValidateCustomerInfoWallet(t *testing.T) {
	info := validInfo()
	info.WalletAddress = "0xZZ11111111111111111111111111111111111111"
	errs := ValidateCustomerInfo(info, false)
	if _, ok := errs["wallet"]; !ok {
		t.Fatalf("expected wallet error for non-hex address, got %v", errs)
	}

	info.WalletAddress = ""
	errs = ValidateCustomerInfo(info, false)
	if _, ok := errs["wallet"]; !ok {
		t.Fatalf("expected wallet error when not connected, got %v", errs)
	}

	// A connected wallet makes the field optional.
	if errs := ValidateCustomerInfo(info, true); errs != nil {
		t.Fatalf("expected connected wallet to pass, got %v", errs)
	}
}

func TestValidateCustomerInfoSocial(t *testing.T) {
	info := validInfo()
	info.Telegram = " "
	info.XHandle = ""
	info.Discord = ""
	errs := ValidateCustomerInfo(info, false)
	if _, ok := errs["social"]; !ok {
		t.Fatalf("expected social error, got %v", errs)
	}

	info.Discord = "alice#0001"
	if errs := ValidateCustomerInfo(info, false); errs != nil {
		t.Fatalf("expected one social contact to pass, got %v", errs)
	}
}

func TestValidateCustomerInfoCollectsAllErrors(t *testing.T) {
	errs := ValidateCustomerInfo(model.CustomerInfo{}, false)
	for _, field := range []string{"name", "email", "wallet", "social"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected %s error to be collected, got %v", field, errs)
		}
	}
	msg := errs.Error()
	if !strings.Contains(msg, "email:") || !strings.Contains(msg, "wallet:") {
		t.Fatalf("unexpected error message %q", msg)
	}
}
