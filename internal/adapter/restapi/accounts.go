package restapi

import (
	"context"
	"net/http"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	var dto loginResponseDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"accounts", "login"},
		body:   loginRequestDTO{TenTK: username, MatKhau: password},
		out:    &dto,
	})
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{AccountID: dto.MaTK, Username: dto.TenTK, CustomerID: dto.MaKH}, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req port.CustomerRequest) (string, error) {
	var dto customerDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"customers"},
		body: customerDTO{
			TenKH:  req.FullName,
			Email:  req.Email,
			SDT:    req.Phone,
			DiaChi: req.Address,
		},
		out: &dto,
	})
	if err != nil {
		return "", err
	}
	return dto.MaKH, nil
}

func (c *Client) CreateAccount(ctx context.Context, req port.AccountRequest) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"accounts"},
		body:   accountDTO{TenTK: req.Username, MatKhau: req.Password, MaKH: req.CustomerID},
	})
}
