package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rl1809/storefront/internal/core/domain"
)

func TestLogin_DerivesRole(t *testing.T) {
	api := newMockAPI()
	api.user = domain.User{AccountID: "TK1", CustomerID: "KH1"}
	svc := NewAccountService(api)

	u, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", u.Role)
	}

	u, err = svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleCustomer {
		t.Errorf("expected customer role, got %s", u.Role)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	api := newMockAPI()
	svc := NewAccountService(api)

	if _, err := svc.Login(context.Background(), "alice", ""); err == nil {
		t.Error("expected validation error")
	}
	if calls := api.calls.Load(); calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
}

func TestLoginFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{userMessageErr{msg: "Wrong password"}, "Wrong password"},
		{userMessageErr{}, "Invalid username or password"},
		{errors.New("dial tcp: connection refused"), "Failed to connect to server. Please try again."},
		{ValidationError("Please enter both username and password"), "Please enter both username and password"},
	}
	for _, tt := range tests {
		if got := LoginFailureMessage(tt.err); got != tt.want {
			t.Errorf("LoginFailureMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRegister_CreatesCustomerThenAccount(t *testing.T) {
	api := newMockAPI()
	api.customerID = "KH7"
	svc := NewAccountService(api)

	err := svc.Register(context.Background(), RegistrationForm{
		FullName: "Alice",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.customers) != 1 || len(api.accounts) != 1 {
		t.Fatalf("expected one customer and one account, got %d and %d", len(api.customers), len(api.accounts))
	}
	if api.accounts[0].CustomerID != "KH7" {
		t.Errorf("expected account to reference KH7, got %q", api.accounts[0].CustomerID)
	}
}

func TestRegister_Validation(t *testing.T) {
	api := newMockAPI()
	svc := NewAccountService(api)

	err := svc.Register(context.Background(), RegistrationForm{FullName: "Alice", Email: "nope", Username: "a", Password: "b"})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	err = svc.Register(context.Background(), RegistrationForm{Email: "a@b.c"})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if calls := api.calls.Load(); calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
}

func TestRegister_NoCustomerID(t *testing.T) {
	api := newMockAPI()
	svc := NewAccountService(api)

	err := svc.Register(context.Background(), RegistrationForm{FullName: "A", Email: "a@b.c", Username: "a", Password: "b"})
	if !errors.Is(err, errNoCustomerID) {
		t.Errorf("expected errNoCustomerID, got %v", err)
	}
	if len(api.accounts) != 0 {
		t.Error("account must not be created without a customer id")
	}
}
