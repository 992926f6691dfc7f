package restapi

import (
	"math"

	"github.com/rl1809/storefront/internal/core/domain"
)

// Upstream field names. encoding/json matches keys case-insensitively, so the
// lowerCamel tags also read the PascalCase list payloads.

type categoryDTO struct {
	MaDM  string `json:"maDM"`
	TenDM string `json:"tenDM"`
}

type productDTO struct {
	MaSP       string  `json:"maSP,omitempty"`
	TenSP      string  `json:"tenSP"`
	Gia        float64 `json:"gia"`
	MaDM       string  `json:"maDM"`
	HinhAnh    string  `json:"hinhAnh"`
	MoTa       string  `json:"moTa"`
	SoLuongTon int     `json:"soLuongTon"`
	LoaiSP     string  `json:"loaiSP"`
}

type lineItemDTO struct {
	MaSP    string  `json:"MaSP"`
	SoLuong int     `json:"SoLuong"`
	DonGia  float64 `json:"DonGia"`
}

type orderDTO struct {
	MaDH           string  `json:"MaDH"`
	MaKH           string  `json:"MaKH"`
	NgayDat        string  `json:"NgayDat"`
	NgayDatHang    string  `json:"NgayDatHang"`
	TrangThai      string  `json:"TrangThai"`
	TongTien       float64 `json:"TongTien"`
	DiaChiGiaoHang string  `json:"DiaChiGiaoHang"`
}

type orderDetailDTO struct {
	orderDTO
	ChiTiet []lineItemDTO `json:"chitiet"`
}

type orderLineRequestDTO struct {
	MaSP    string `json:"MaSP"`
	SoLuong int    `json:"SoLuong"`
	Gia     int64  `json:"Gia"`
}

type orderRequestDTO struct {
	MaKH                string                `json:"MaKH"`
	NgayDatHang         string                `json:"NgayDatHang"`
	TongTien            int64                 `json:"TongTien"`
	TrangThai           string                `json:"TrangThai"`
	DiaChiGiaoHang      string                `json:"DiaChiGiaoHang"`
	PhuongThucThanhToan string                `json:"PhuongThucThanhToan,omitempty"`
	ChiTietDonHangs     []orderLineRequestDTO `json:"ChiTietDonHangs"`
}

type orderStatusDTO struct {
	TrangThai string `json:"TrangThai"`
}

type loginRequestDTO struct {
	TenTK   string `json:"tenTK"`
	MatKhau string `json:"matKhau"`
}

type loginResponseDTO struct {
	MaTK  string `json:"maTK"`
	TenTK string `json:"tenTK"`
	MaKH  string `json:"maKH"`
}

type customerDTO struct {
	MaKH   string `json:"MaKH,omitempty"`
	TenKH  string `json:"TenKH"`
	Email  string `json:"Email"`
	SDT    string `json:"SDT,omitempty"`
	DiaChi string `json:"DiaChi,omitempty"`
}

type accountDTO struct {
	TenTK   string `json:"TenTK"`
	MatKhau string `json:"MatKhau"`
	MaKH    string `json:"MaKH"`
}

type reviewDTO struct {
	MaDG           string `json:"MaDG"`
	MaDH           string `json:"MaDH"`
	MaSP           string `json:"MaSP"`
	MaKH           string `json:"MaKH,omitempty"`
	SoSao          int    `json:"SoSao"`
	TieuDe         string `json:"TieuDe,omitempty"`
	NoiDung        string `json:"NoiDung"`
	NgayDanhGia    string `json:"NgayDanhGia"`
	HinhAnh        string `json:"HinhAnh,omitempty"`
	PhanHoiCuaHang string `json:"PhanHoiCuaHang,omitempty"`
}

func money(v float64) int64 {
	return int64(math.Round(v))
}

func (d categoryDTO) toDomain() domain.Category {
	return domain.Category{ID: d.MaDM, Name: d.TenDM}
}

func (d productDTO) toDomain() domain.Product {
	p := domain.Product{
		ID:          d.MaSP,
		Name:        d.TenSP,
		Category:    d.MaDM,
		Price:       money(d.Gia),
		Image:       d.HinhAnh,
		Description: d.MoTa,
		Stock:       d.SoLuongTon,
	}
	if p.Category == "" {
		p.Category = domain.UnknownCategory
	}
	if p.Image == "" {
		p.Image = domain.PlaceholderImage
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	return p
}

func productFromDomain(p domain.Product) productDTO {
	img := p.Image
	if img == "" {
		img = domain.PlaceholderImage
	}
	return productDTO{
		MaSP:       p.ID,
		TenSP:      p.Name,
		Gia:        float64(p.Price),
		MaDM:       p.Category,
		HinhAnh:    img,
		MoTa:       p.Description,
		SoLuongTon: p.Stock,
	}
}

func (d orderDTO) toDomain(today string) domain.Order {
	o := domain.Order{
		ID:         d.MaDH,
		CustomerID: d.MaKH,
		Date:       d.NgayDat,
		Status:     domain.OrderStatus(d.TrangThai),
		Total:      money(d.TongTien),
		Address:    d.DiaChiGiaoHang,
	}
	if o.Date == "" {
		o.Date = d.NgayDatHang
	}
	if o.Date == "" {
		o.Date = today
	}
	if o.CustomerID == "" {
		o.CustomerID = "Unknown"
	}
	return o
}

func (d lineItemDTO) toDomain() domain.LineItem {
	return domain.LineItem{ProductID: d.MaSP, Quantity: d.SoLuong, UnitPrice: money(d.DonGia)}
}

func (d reviewDTO) toDomain(today string) domain.Review {
	r := domain.Review{
		ID:         d.MaDG,
		OrderID:    d.MaDH,
		ProductID:  d.MaSP,
		CustomerID: d.MaKH,
		Rating:     d.SoSao,
		Title:      d.TieuDe,
		Content:    d.NoiDung,
		Date:       d.NgayDanhGia,
		Image:      d.HinhAnh,
		StoreReply: d.PhanHoiCuaHang,
	}
	if r.Title == "" {
		r.Title = "No Title"
	}
	if r.Content == "" {
		r.Content = "No Content"
	}
	if r.Date == "" {
		r.Date = today
	}
	return r
}

func reviewFromDomain(r domain.Review) reviewDTO {
	return reviewDTO{
		MaDG:        r.ID,
		MaDH:        r.OrderID,
		MaSP:        r.ProductID,
		MaKH:        r.CustomerID,
		SoSao:       r.Rating,
		TieuDe:      r.Title,
		NoiDung:     r.Content,
		NgayDanhGia: r.Date,
		HinhAnh:     r.Image,
	}
}
