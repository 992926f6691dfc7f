package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	storefront *service.Storefront
	health     *HealthReporter
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// FormValue accepts a JSON string or number and holds its text as typed.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a string or a number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

type ViewRequest struct {
	View domain.View `json:"view"`
}

type CategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ReviewOrderRequest struct {
	OrderID string `json:"orderId"`
}

type ReviewRequest struct {
	ProductID string    `json:"productId"`
	Rating    FormValue `json:"rating"`
	Comment   string    `json:"comment"`
}

type ProductFilterRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

type ProductSortRequest struct {
	Field domain.SortField `json:"field"`
}

type ProductRequest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       FormValue `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Stock       FormValue `json:"stock"`
}

func (p ProductRequest) form() service.ProductForm {
	return service.ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		Price:       string(p.Price),
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Stock:       string(p.Stock),
	}
}

type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type ReceiptRequest struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func NewHTTPHandler(storefront *service.Storefront, health *HealthReporter) *HTTPHandler {
	return &HTTPHandler{storefront: storefront, health: health}
}

// Register mounts the health check and the session API on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/sessions", h.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.CloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/view", h.Navigate)
	mux.HandleFunc("POST /api/sessions/{id}/menu/category", h.SelectCategory)
	mux.HandleFunc("POST /api/sessions/{id}/cart/items", h.AddToCart)
	mux.HandleFunc("PATCH /api/sessions/{id}/cart/items/{pid}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /api/sessions/{id}/cart/items/{pid}", h.RemoveFromCart)
	mux.HandleFunc("POST /api/sessions/{id}/checkout", h.Checkout)
	mux.HandleFunc("POST /api/sessions/{id}/login", h.Login)
	mux.HandleFunc("POST /api/sessions/{id}/logout", h.Logout)
	mux.HandleFunc("POST /api/sessions/{id}/register", h.RegisterAccount)
	mux.HandleFunc("POST /api/sessions/{id}/review/order", h.SelectReviewOrder)
	mux.HandleFunc("POST /api/sessions/{id}/reviews", h.SubmitReview)

	mux.HandleFunc("POST /api/sessions/{id}/admin/products/filter", h.FilterProducts)
	mux.HandleFunc("POST /api/sessions/{id}/admin/products/sort", h.SortProducts)
	mux.HandleFunc("POST /api/sessions/{id}/admin/products", h.CreateProduct)
	mux.HandleFunc("PUT /api/sessions/{id}/admin/products/{pid}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/sessions/{id}/admin/products/{pid}", h.DeleteProduct)
	mux.HandleFunc("PATCH /api/sessions/{id}/admin/orders/{oid}", h.UpdateOrderStatus)
	mux.HandleFunc("POST /api/sessions/{id}/admin/receipts", h.CreateReceipt)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil && !h.health.Serving() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.storefront.Open(r.Context())
	h.respond(w, r, http.StatusCreated, sess, err)
}

func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.storefront.Get(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.storefront.Close(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.Navigate(r.Context(), r.PathValue("id"), req.View)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.SelectCategory(r.Context(), r.PathValue("id"), req.CategoryID)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if !bind(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing productId"})
		return
	}
	sess, err := h.storefront.AddToCart(r.Context(), r.PathValue("id"), req.ProductID)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.UpdateQuantity(r.Context(), r.PathValue("id"), r.PathValue("pid"), req.Quantity)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.storefront.RemoveFromCart(r.Context(), r.PathValue("id"), r.PathValue("pid"))
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.Checkout(r.Context(), r.PathValue("id"), req.Address, req.PaymentMethod)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.Login(r.Context(), r.PathValue("id"), req.Username, req.Password)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.storefront.Logout(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req service.RegistrationForm
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.Register(r.Context(), r.PathValue("id"), req)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) SelectReviewOrder(w http.ResponseWriter, r *http.Request) {
	var req ReviewOrderRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.SelectReviewOrder(r.Context(), r.PathValue("id"), req.OrderID)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.SubmitReview(r.Context(), r.PathValue("id"), req.ProductID, string(req.Rating), req.Comment)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	var req ProductFilterRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.SetProductFilter(r.Context(), r.PathValue("id"), req.Search, req.Category)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) SortProducts(w http.ResponseWriter, r *http.Request) {
	var req ProductSortRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.SortProducts(r.Context(), r.PathValue("id"), req.Field)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.CreateProduct(r.Context(), r.PathValue("id"), req.form())
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.UpdateProduct(r.Context(), r.PathValue("id"), r.PathValue("pid"), req.form())
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess, err := h.storefront.DeleteProduct(r.Context(), r.PathValue("id"), r.PathValue("pid"))
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req OrderStatusRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.UpdateOrderStatus(r.Context(), r.PathValue("id"), r.PathValue("oid"), req.Status)
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req ReceiptRequest
	if !bind(w, r, &req) {
		return
	}
	sess, err := h.storefront.CreateReceipt(r.Context(), r.PathValue("id"), service.ReceiptForm{
		ID:        req.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	h.respond(w, r, http.StatusOK, sess, err)
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, status int, sess domain.Session, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, h.storefront.Render(r.Context(), sess))
}

// bind decodes the request body into dst and answers 400 when it is malformed.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, port.ErrOptimisticLock):
		status = http.StatusConflict
		message = "session was modified concurrently, please retry"
	case errors.Is(err, service.ErrUnknownView):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	default:
		log.Printf("http: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
