package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/pagination"
	"github.com/urban-services/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, scope service.Scope, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	GetOrder(ctx context.Context, scope service.Scope, orderID int64) (*service.OrderDetail, error)
	CancelOrder(ctx context.Context, scope service.Scope, orderID int64) (database.OrderGroup, error)
	ListOrders(ctx context.Context, scope service.Scope, cursor *int64) (pagination.Page[database.ListOrderGroupsByUserRow], error)
}

// OrderHandler handles the caller's order endpoints.
type OrderHandler struct {
	svc OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside the authenticated /api/users group.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Patch("/orders/{orderId}/cancel", h.Cancel)
	r.Get("/orderdetails/{orderId}", h.Get)
}

// --- Request / Response types ---

type createOrderRequest struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Servicetime string                      `json:"servicetime"`
	Services    []createOrderServiceRequest `json:"services"`
}

type createOrderServiceRequest struct {
	SubserviceID  int64            `json:"subserviceId"`
	ServiceCharge *decimal.Decimal `json:"serviceCharge"`
}

type orderResponse struct {
	ID            int64                 `json:"id"`
	UserID        int64                 `json:"userId"`
	AgentID       *int64                `json:"agentId"`
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Servicetime   time.Time             `json:"servicetime"`
	TotalPrice    string                `json:"totalPrice"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"paymentStatus"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Agent         *agentSummaryResponse `json:"agent,omitempty"`
}

type createdOrderResponse struct {
	orderResponse
	Services []orderLineResponse `json:"services"`
}

type orderDetailResponse struct {
	orderResponse
	Services       []orderLineResponse     `json:"services"`
	ExtraMaterials []extraMaterialResponse `json:"extraMaterials"`
	Payments       []paymentResponse       `json:"payments"`
}

type agentSummaryResponse struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Email *string `json:"email,omitempty"`
}

type orderLineResponse struct {
	ID            int64              `json:"id"`
	SubserviceID  int64              `json:"subserviceId"`
	ServiceCharge string             `json:"serviceCharge"`
	Subservice    subserviceResponse `json:"subservice"`
}

type subserviceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Description *string `json:"description"`
}

type extraMaterialResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Quantity    int32     `json:"quantity"`
	Price       string    `json:"price"`
	Description *string   `json:"description"`
	AddedBy     addedBy   `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type addedBy struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type paymentResponse struct {
	ID            int64     `json:"id"`
	Amount        string    `json:"amount"`
	Method        string    `json:"method"`
	TransactionID *string   `json:"transactionId"`
	Note          *string   `json:"note"`
	CreatedAt     time.Time `json:"createdAt"`
}

type summaryResponse struct {
	TotalPaid          string `json:"totalPaid"`
	ExtraMaterialTotal string `json:"extraMaterialTotal"`
}

// --- Handlers ---

// List returns one page of the caller's orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "list orders", err)
		return
	}
	cursor, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.ListOrders(r.Context(), scope, cursor)
	if err != nil {
		writeServiceError(w, r, "list orders", err)
		return
	}

	orders := make([]orderResponse, len(page.Items))
	for i, row := range page.Items {
		orders[i] = groupToResponse(row.OrderGroup)
		if row.AgentName.Valid {
			orders[i].Agent = &agentSummaryResponse{Name: row.AgentName.String, Type: row.AgentType.String}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"nextCursor": page.NextCursor,
	})
}

// Get returns one order with its line items, materials, payments and totals.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}
	orderID, ok := parseIDParam(r, "orderId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := h.svc.GetOrder(r.Context(), scope, orderID)
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order": detailToResponse(detail),
		"summary": summaryResponse{
			TotalPaid:          detail.Summary.TotalPaid.StringFixed(2),
			ExtraMaterialTotal: detail.Summary.ExtraMaterialTotal.StringFixed(2),
		},
	})
}

// Create places a new order for the caller.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "create order", err)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svcReq := service.CreateOrderRequest{
		Name:        req.Name,
		Description: req.Description,
		Servicetime: req.Servicetime,
		Services:    make([]service.CreateOrderServiceRequest, len(req.Services)),
	}
	for i, s := range req.Services {
		if s.ServiceCharge == nil {
			writeError(w, http.StatusBadRequest, "services["+strconv.Itoa(i)+"]: serviceCharge is required")
			return
		}
		svcReq.Services[i] = service.CreateOrderServiceRequest{
			SubserviceID:  s.SubserviceID,
			ServiceCharge: *s.ServiceCharge,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), scope, svcReq)
	if err != nil {
		writeServiceError(w, r, "create order", err)
		return
	}

	resp := createdOrderResponse{orderResponse: groupToResponse(result.Group)}
	resp.Services = make([]orderLineResponse, len(result.Lines))
	for i, l := range result.Lines {
		resp.Services[i] = orderLineResponse{
			ID:            l.Line.ID,
			SubserviceID:  l.Line.SubserviceID,
			ServiceCharge: numericToString(l.Line.ServiceCharge),
			Subservice: subserviceResponse{
				ID:          l.Line.SubserviceID,
				Name:        l.SubserviceName,
				Price:       numericToString(l.SubservicePrice),
				Description: textPtr(l.SubserviceDescription),
			},
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"order": resp})
}

// Cancel cancels a pending order owned by the caller.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "cancel order", err)
		return
	}
	orderID, ok := parseIDParam(r, "orderId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	cancelled, err := h.svc.CancelOrder(r.Context(), scope, orderID)
	if err != nil {
		writeServiceError(w, r, "cancel order", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"order": groupToResponse(cancelled)})
}

// --- Helpers ---

func groupToResponse(g database.OrderGroup) orderResponse {
	return orderResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		AgentID:       int8Ptr(g.AgentID),
		Name:          textPtr(g.Name),
		Description:   textPtr(g.Description),
		Servicetime:   g.Servicetime,
		TotalPrice:    numericToString(g.TotalPrice),
		Status:        string(g.Status),
		PaymentStatus: string(g.PaymentStatus),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func detailToResponse(d *service.OrderDetail) orderDetailResponse {
	resp := orderDetailResponse{orderResponse: groupToResponse(d.Group.OrderGroup)}
	if d.Group.AgentName.Valid {
		resp.Agent = &agentSummaryResponse{
			Name:  d.Group.AgentName.String,
			Type:  d.Group.AgentType.String,
			Email: textPtr(d.Group.AgentEmail),
		}
	}

	resp.Services = make([]orderLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		resp.Services[i] = orderLineResponse{
			ID:            l.ID,
			SubserviceID:  l.SubserviceID,
			ServiceCharge: numericToString(l.ServiceCharge),
			Subservice: subserviceResponse{
				ID:          l.SubserviceID,
				Name:        l.SubserviceName,
				Price:       numericToString(l.SubservicePrice),
				Description: textPtr(l.SubserviceDescription),
			},
		}
	}

	resp.ExtraMaterials = make([]extraMaterialResponse, len(d.ExtraMaterials))
	for i, m := range d.ExtraMaterials {
		resp.ExtraMaterials[i] = extraMaterialResponse{
			ID:          m.ID,
			Name:        m.Name,
			Quantity:    m.Quantity,
			Price:       numericToString(m.Price),
			Description: textPtr(m.Description),
			AddedBy:     addedBy{ID: m.AddedByAgent, Name: m.AddedByName},
			CreatedAt:   m.CreatedAt,
		}
	}

	resp.Payments = make([]paymentResponse, len(d.Payments))
	for i, p := range d.Payments {
		resp.Payments[i] = paymentResponse{
			ID:            p.ID,
			Amount:        numericToString(p.Amount),
			Method:        p.Method,
			TransactionID: textPtr(p.TransactionID),
			Note:          textPtr(p.Note),
			CreatedAt:     p.CreatedAt,
		}
	}
	return resp
}
