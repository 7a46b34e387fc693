package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/usecase"
)

// ===== DTOs =====

type orderItemDTO struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type orderDTO struct {
	ID              string         `json:"id"`
	Code            string         `json:"orderCode"`
	User            string         `json:"user"`
	Items           []orderItemDTO `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	DeliveryFee     int64          `json:"deliveryFee"`
	Discount        int            `json:"discount"`
	TotalPayable    int64          `json:"totalPayable"`
	Email           string         `json:"email"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
	ShippingStatus  string         `json:"shippingStatus"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Totals are always rendered from the stored inputs, never from a stored
// total column.
func toOrderDTO(o *model.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDTO{Product: it.ProductID, Quantity: it.Quantity, Price: it.UnitPrice})
	}
	return orderDTO{
		ID:              o.ID,
		Code:            o.Code,
		User:            o.UserID,
		Items:           items,
		Subtotal:        o.Subtotal(),
		DeliveryFee:     o.DeliveryFee,
		Discount:        o.Discount,
		TotalPayable:    o.TotalPayable(),
		Email:           o.Email,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		ShippingStatus:  string(o.ShippingStatus),
		CreatedAt:       o.CreatedAt,
	}
}

type userDTO struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name,omitempty"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	PlanID             *string    `json:"planId,omitempty"`
	BillingCycle       *string    `json:"billingCycle,omitempty"`
	PlanExpiresAt      *time.Time `json:"planExpiresAt,omitempty"`
}

func toUserDTO(u *model.User) userDTO {
	var cycle *string
	if u.BillingCycle != nil {
		c := string(*u.BillingCycle)
		cycle = &c
	}
	return userDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		SubscriptionStatus: string(u.SubscriptionStatus),
		PlanID:             u.PlanID,
		BillingCycle:       cycle,
		PlanExpiresAt:      u.PlanExpiresAt,
	}
}

// ===== Auth =====

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	user, err := s.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(user.ID, user.IsAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string  `json:"token"`
		User  userDTO `json:"user"`
	}{Token: token, User: toUserDTO(user)})
}

// ===== Orders =====

type orderCreateRequest struct {
	User            string         `json:"user"`
	Items           []orderItemDTO `json:"items"`
	ShippingAddress string         `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	DeliveryFee     int64          `json:"deliveryFee"`
	Discount        int            `json:"discount"`
	Email           string         `json:"email"`
	NameOnCard      string         `json:"nameOnCard"`
}

func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	var req orderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{ProductID: it.Product, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	res, err := s.orders.Create(r.Context(), usecase.CreateOrderInput{
		UserID:          req.User,
		Items:           items,
		Email:           req.Email,
		NameOnCard:      req.NameOnCard,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		DeliveryFee:     req.DeliveryFee,
		Discount:        req.Discount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if res.Order.PaymentMethod == model.PaymentMethodCash {
		writeJSON(w, http.StatusCreated, struct {
			Type string   `json:"type"`
			Data orderDTO `json:"data"`
		}{Type: "cash", Data: toOrderDTO(res.Order)})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Type      string `json:"type"`
		Reference string `json:"reference"`
		URL       string `json:"url"`
		OrderID   string `json:"orderId"`
	}{Type: "paystack", Reference: res.Reference, URL: res.AuthorizationURL, OrderID: res.Order.ID})
}

func (s *Server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (s *Server) handleOrderList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := s.orders.List(r.Context(), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []orderDTO `json:"data"`
	}{Data: out})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleOrderStatusUpdate(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	o, err := s.orders.UpdateShippingStatus(r.Context(), chi.URLParam(r, "id"), model.ShippingStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		OrderCode string `json:"orderCode"`
		Status    string `json:"status"`
	}{OrderCode: o.Code, Status: string(o.ShippingStatus)})
}

func (s *Server) handleOrderCancel(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

// ===== Plans =====

func (s *Server) handlePlanList(w http.ResponseWriter, r *http.Request) {
	plans, err := s.subs.ListPlans(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	type planDTO struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		MonthlyPrice int64  `json:"monthlyPrice"`
		YearlyPrice  int64  `json:"yearlyPrice"`
	}
	out := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, planDTO{ID: p.ID, Name: p.Name, MonthlyPrice: p.MonthlyPrice, YearlyPrice: p.YearlyPrice})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []planDTO `json:"data"`
	}{Data: out})
}

type planSelectRequest struct {
	PlanID string `json:"planId"`
}

func (s *Server) handlePlanSelect(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}
	var req planSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	user, err := s.subs.SelectPlan(r.Context(), claims.UserID, req.PlanID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// ===== Products =====

type productRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
}

type productDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
}

func toProductDTO(p *model.Product) productDTO {
	return productDTO{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, Stock: p.Stock}
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	p, err := s.products.Create(r.Context(), req.Name, req.Category, req.Price, req.Stock)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p))
}

func (s *Server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (s *Server) handleProductList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := s.products.List(r.Context(), r.URL.Query().Get("category"), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []productDTO `json:"data"`
	}{Data: out})
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	p, err := s.products.Update(r.Context(), &model.Product{
		ID:       chi.URLParam(r, "id"),
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
