package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var errNoCustomerID = errors.New("upstream returned no customer id")

type RegistrationForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type AccountService struct {
	api port.AccountAPI
}

func NewAccountService(api port.AccountAPI) *AccountService {
	return &AccountService{api: api}
}

// Login authenticates against the upstream and derives the session role from
// the username.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ValidationError("Please enter both username and password")
	}

	u, err := s.api.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	if u.Username == "" {
		u.Username = username
	}
	u.Role = domain.RoleForUsername(u.Username)
	return u, nil
}

// LoginFailureMessage tells a rejected login apart from an unreachable server.
func LoginFailureMessage(err error) string {
	var ve ValidationError
	if errors.As(err, &ve) {
		return string(ve)
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
		return msgInvalidCredentials
	}
	return msgConnect
}

// Register creates the customer record and then the login account that
// references it.
func (s *AccountService) Register(ctx context.Context, form RegistrationForm) error {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	if form.FullName == "" || form.Email == "" || form.Username == "" || form.Password == "" {
		return ValidationError(msgFillAllFields)
	}
	if !strings.Contains(form.Email, "@") {
		return ValidationError("Please enter a valid email address")
	}

	customerID, err := s.api.CreateCustomer(ctx, port.CustomerRequest{
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    strings.TrimSpace(form.Phone),
		Address:  strings.TrimSpace(form.Address),
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	if customerID == "" {
		return errNoCustomerID
	}

	err = s.api.CreateAccount(ctx, port.AccountRequest{
		Username:   form.Username,
		Password:   form.Password,
		CustomerID: customerID,
	})
	if err != nil {
		return fmt.Errorf("create account for customer %s: %w", customerID, err)
	}
	return nil
}
