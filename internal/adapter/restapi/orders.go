package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func (c *Client) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	q := url.Values{"page": {strconv.Itoa(filter.Page)}, "size": {strconv.Itoa(filter.Size)}}
	if filter.CustomerID != "" {
		q.Set("customerId", filter.CustomerID)
	}
	var dtos []orderDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"orders"}, query: q, out: &dtos}); err != nil {
		return nil, err
	}
	today := c.today()
	out := make([]domain.Order, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain(today))
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var dto orderDetailDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"orders", id}, out: &dto}); err != nil {
		return domain.Order{}, err
	}
	o := dto.toDomain(c.today())
	if o.ID == "" {
		o.ID = id
	}
	o.Items = make([]domain.LineItem, 0, len(dto.ChiTiet))
	for _, li := range dto.ChiTiet {
		o.Items = append(o.Items, li.toDomain())
	}
	return o, nil
}

func (c *Client) CreateOrder(ctx context.Context, req port.OrderRequest) (domain.Order, error) {
	body := orderRequestDTO{
		MaKH:                req.CustomerID,
		NgayDatHang:         req.Date,
		TongTien:            req.Total,
		TrangThai:           string(req.Status),
		DiaChiGiaoHang:      req.Address,
		PhuongThucThanhToan: req.PaymentMethod,
		ChiTietDonHangs:     make([]orderLineRequestDTO, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		body.ChiTietDonHangs = append(body.ChiTietDonHangs, orderLineRequestDTO{
			MaSP:    it.ProductID,
			SoLuong: it.Quantity,
			Gia:     it.UnitPrice,
		})
	}

	var dto orderDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"orders"},
		body:   body,
		out:    &dto,
		bare:   true,
	})
	if err != nil {
		return domain.Order{}, err
	}
	// the upstream echoes at most the header; line items come from the request
	return domain.Order{
		ID:         dto.MaDH,
		CustomerID: dto.MaKH,
		Date:       firstNonEmpty(dto.NgayDatHang, dto.NgayDat),
		Status:     domain.OrderStatus(dto.TrangThai),
		Total:      money(dto.TongTien),
		Address:    dto.DiaChiGiaoHang,
	}, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.OrderStatus, error) {
	var dto orderStatusDTO
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   []string{"orders", id},
		body:   orderStatusDTO{TrangThai: string(status)},
		out:    &dto,
		bare:   true,
	})
	if err != nil {
		return "", err
	}
	return domain.OrderStatus(dto.TrangThai), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
