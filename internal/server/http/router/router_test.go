package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wildfire-market/checkout/internal/server/http/handlers"
	testhelpers "github.com/wildfire-market/checkout/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(&testhelpers.CheckoutFacadeStub{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for checkout state, got %d", resp.Code)
	}

	// A visitor without a cookie gets a session minted on first contact.
	cookies := resp.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == "wf_session" && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected session cookie to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for cart, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/WF-000001-1", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for order lookup, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/onramp", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for onramp start, got %d", resp.Code)
	}
}

var _ handlers.CheckoutFacade = (*testhelpers.CheckoutFacadeStub)(nil)
