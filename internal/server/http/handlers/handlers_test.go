package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/server/http/dto"
	"github.com/merchkit/orderflow/internal/server/http/middleware"
	testhelpers "github.com/merchkit/orderflow/internal/test"
	"github.com/merchkit/orderflow/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asAdmin(c *gin.Context) {
	c.Set(middleware.ScopeContextKey, model.AdminScope)
}

func TestCurrentScope(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentScope(c); got.Admin || got.CustomerID != 0 {
		t.Fatalf("expected empty scope when not set, got %+v", got)
	}

	c.Set(middleware.ScopeContextKey, model.ActorScope{CustomerID: 42})
	if got := CurrentScope(c); got.CustomerID != 42 {
		t.Fatalf("expected customer 42, got %+v", got)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{domainErrors.ErrIllegalTransition, http.StatusConflict},
		{domainErrors.ErrInvalidState, http.StatusConflict},
		{domainErrors.ErrConflict, http.StatusConflict},
		{domainErrors.ErrDuplicatePayment, http.StatusConflict},
		{domainErrors.ErrOverAllocation, http.StatusUnprocessableEntity},
		{domainErrors.ErrUnknownFilterField, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		respondError(c, tt.err)
		if recorder.Code != tt.code {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.code, recorder.Code)
		}
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("expected auth header, got %q", resp.Header().Get("Authorization"))
	}
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	stub := testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrAlreadyExists
	}}
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(stub).Register, nil, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate login, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	stub := testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}}
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "wrong"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(stub).Login, nil, body)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestOrderHandlerListEmptySliceNotNull(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{}, testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/orders", handler.List, asAdmin, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestOrderHandlerListRejectsUnknownFilterField(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{}, testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/orders", handler.List, asAdmin, []byte(`{"color":"red"}`))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown predicate, got %d", resp.Code)
	}
}

func TestOrderHandlerUpdateStatusPassesOverride(t *testing.T) {
	var gotOverride bool
	stub := testhelpers.OrderFacadeStub{UpdateStatusFn: func(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error) {
		gotOverride = override
		return &model.Order{ID: orderID, Status: target}, nil
	}}
	handler := NewOrderHandler(stub, stub)

	body, _ := json.Marshal(dto.UpdateStatusRequest{OrderID: "o1", Status: "CANCELLED", Override: true})
	resp := performRequest(t, http.MethodPut, "/order/status", handler.UpdateStatus, asAdmin, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !gotOverride {
		t.Fatal("expected override flag forwarded")
	}
}

func TestPaymentHandlerPay(t *testing.T) {
	var gotKey string
	stub := testhelpers.OrderFacadeStub{PayOrderFn: func(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error) {
		gotKey = idempotencyKey
		return &model.Order{ID: orderID, Status: model.OrderStatusPaid}, nil
	}}
	handler := NewPaymentHandler(stub)

	body, _ := json.Marshal(dto.PayRequest{Method: "card", IdempotencyKey: "key-1"})
	resp := performRequest(t, http.MethodPost, "/order/pay/o1", handler.Pay, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotKey != "key-1" {
		t.Fatalf("expected idempotency key forwarded, got %q", gotKey)
	}
}

func TestPaymentHandlerPayDuplicate(t *testing.T) {
	stub := testhelpers.OrderFacadeStub{PayOrderFn: func(context.Context, model.ActorScope, string, string, string) (*model.Order, error) {
		return nil, domainErrors.ErrDuplicatePayment
	}}
	handler := NewPaymentHandler(stub)

	body, _ := json.Marshal(dto.PayRequest{Method: "card", IdempotencyKey: "key-1"})
	resp := performRequest(t, http.MethodPost, "/order/pay/o1", handler.Pay, nil, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate key, got %d", resp.Code)
	}
}

func TestPaymentHandlerUpdateBuildsPatch(t *testing.T) {
	var gotPatch usecase.PaymentPatch
	stub := testhelpers.OrderFacadeStub{UpdatePaymentFn: func(ctx context.Context, scope model.ActorScope, patch usecase.PaymentPatch) (*model.Order, error) {
		gotPatch = patch
		return &model.Order{ID: patch.OrderID}, nil
	}}
	handler := NewPaymentHandler(stub)

	body, _ := json.Marshal(dto.UpdatePaymentRequest{OrderID: "o1", PaymentID: "pay-1", Result: "succeeded", Reference: "ref"})
	resp := performRequest(t, http.MethodPut, "/order/payment", handler.Update, asAdmin, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotPatch.PaymentID != "pay-1" || gotPatch.Result != model.PaymentResultSucceeded || gotPatch.Reference != "ref" {
		t.Fatalf("unexpected patch %+v", gotPatch)
	}
}

func TestCancelHandlerRefusalBody(t *testing.T) {
	stub := testhelpers.OrderFacadeStub{CancelOrderFn: func(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error) {
		return nil, &model.CancelRefusal{OrderID: orderID, Status: model.OrderStatusShipped, Reason: "order already shipped or closed"}, nil
	}}
	handler := NewCancelHandler(stub)

	resp := performRequest(t, http.MethodPut, "/order/cancel/o1", handler.Cancel, asAdmin, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for refused cancellation, got %d", resp.Code)
	}
	var refusal dto.CancelRefusalResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &refusal); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if refusal.OrderID != "o1" || refusal.Status != string(model.OrderStatusShipped) {
		t.Fatalf("unexpected refusal %+v", refusal)
	}
}

func TestCancelHandlerRequestCancel(t *testing.T) {
	stub := testhelpers.OrderFacadeStub{CancelOrderRequestFn: func(context.Context, model.ActorScope, string) (bool, *model.Order, error) {
		return false, &model.Order{ID: "o1", Status: model.OrderStatusDelivered}, nil
	}}
	handler := NewCancelHandler(stub)

	resp := performRequest(t, http.MethodPut, "/order/requestCancel/o1", handler.RequestCancel, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result dto.CancelRequestResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if result.Requested {
		t.Fatal("expected requested=false for non-cancellable order")
	}
}

func TestFulfillmentHandlerAddPackageOverAllocation(t *testing.T) {
	stub := testhelpers.OrderFacadeStub{AddPackageFn: func(context.Context, model.ActorScope, string, map[string]int) (*model.Order, error) {
		return nil, domainErrors.ErrOverAllocation
	}}
	handler := NewFulfillmentHandler(stub)

	body, _ := json.Marshal(dto.AddPackageRequest{OrderID: "o1", Allocation: map[string]int{"p1": 5}})
	resp := performRequest(t, http.MethodPost, "/order/pkg", handler.AddPackage, asAdmin, body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerRequestReturn(t *testing.T) {
	var gotSpec usecase.ReturnSpec
	var gotLocale string
	stub := testhelpers.OrderFacadeStub{RequestReturnFn: func(ctx context.Context, scope model.ActorScope, orderID string, spec usecase.ReturnSpec, locale string) (*model.Order, error) {
		gotSpec = spec
		gotLocale = locale
		return &model.Order{ID: orderID}, nil
	}}
	handler := NewFulfillmentHandler(stub)

	body, _ := json.Marshal(dto.ReturnRequest{OrderID: "o1", Items: map[string]int{"p1": 1}, Reason: "damaged", Locale: "de"})
	resp := performRequest(t, http.MethodPost, "/order/rma", handler.RequestReturn, asAdmin, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotSpec.Items["p1"] != 1 || gotSpec.Reason != "damaged" || gotLocale != "de" {
		t.Fatalf("unexpected spec %+v locale %q", gotSpec, gotLocale)
	}
}

func TestCartHandlerDuplicate(t *testing.T) {
	stub := testhelpers.OrderFacadeStub{DuplicateFn: func(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error) {
		return &model.CartDuplication{Cart: &model.Cart{ID: "cart-1"}, Skipped: []string{"p2"}}, nil
	}}
	handler := NewCartHandler(stub)

	body, _ := json.Marshal(dto.DuplicateToCartRequest{OrderID: "o1"})
	resp := performRequest(t, http.MethodPost, "/order/duplicateToCart", handler.DuplicateToCart, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result model.CartDuplication
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if result.Cart.ID != "cart-1" || len(result.Skipped) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHandlersRejectMalformedBody(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{}
	order := NewOrderHandler(facade, facade)
	payment := NewPaymentHandler(facade)
	fulfillment := NewFulfillmentHandler(facade)

	tests := []struct {
		name    string
		handler gin.HandlerFunc
	}{
		{"update status", order.UpdateStatus},
		{"pay", payment.Pay},
		{"update payment", payment.Update},
		{"add package", fulfillment.AddPackage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/", tt.handler, asAdmin, []byte("{"))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}
