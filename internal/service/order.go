package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/pagination"
)

// Errors returned by the order service.
var (
	ErrEmptyServices        = errors.New("services are required")
	ErrMissingServiceTime   = errors.New("servicetime is required")
	ErrInvalidServiceTime   = errors.New("invalid servicetime, use RFC3339")
	ErrInvalidSubserviceID  = errors.New("invalid subserviceId")
	ErrInvalidServiceCharge = errors.New("serviceCharge must be >= 0")
	ErrServiceChargeScale   = errors.New("serviceCharge must have at most 2 decimal places")
	ErrSubserviceNotFound   = errors.New("subservice not found")
	ErrOrderNotFound        = errors.New("order not found")
)

// SubserviceNotFoundError names every requested subservice id that is
// missing from the catalog.
type SubserviceNotFoundError struct {
	IDs []int64
}

func (e *SubserviceNotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("subservice not found: %s", strings.Join(ids, ", "))
}

func (e *SubserviceNotFoundError) Is(target error) bool {
	return target == ErrSubserviceNotFound
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order ledger.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	ListSubservicesByIDs(ctx context.Context, ids []int64) ([]database.Subservice, error)
	CreateOrderGroup(ctx context.Context, arg database.CreateOrderGroupParams) (database.OrderGroup, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.Order, error)
	GetOrderGroup(ctx context.Context, arg database.GetOrderGroupParams) (database.GetOrderGroupRow, error)
	GetOrderGroupForUpdate(ctx context.Context, arg database.GetOrderGroupForUpdateParams) (database.OrderGroup, error)
	UpdateOrderGroupStatus(ctx context.Context, arg database.UpdateOrderGroupStatusParams) (database.OrderGroup, error)
	ListOrderGroupsByUser(ctx context.Context, arg database.ListOrderGroupsByUserParams) ([]database.ListOrderGroupsByUserRow, error)
	ListOrderLinesByGroup(ctx context.Context, groupID int64) ([]database.ListOrderLinesByGroupRow, error)
	ListPaymentsByGroup(ctx context.Context, groupID int64) ([]database.Payment, error)
	ListExtraMaterialsByGroup(ctx context.Context, groupID int64) ([]database.ListExtraMaterialsByGroupRow, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for creating an order group.
type CreateOrderRequest struct {
	Name        string
	Description string
	Servicetime string // RFC3339
	Services    []CreateOrderServiceRequest
}

// CreateOrderServiceRequest is one requested line item. ServiceCharge is
// taken as given by the caller and is not re-derived from the catalog price.
type CreateOrderServiceRequest struct {
	SubserviceID  int64
	ServiceCharge decimal.Decimal
}

// CreateOrderResult is the created group with its line items.
type CreateOrderResult struct {
	Group database.OrderGroup
	Lines []OrderLineResult
}

// OrderLineResult is a line item joined with its catalog entry.
type OrderLineResult struct {
	Line                  database.Order
	SubserviceName        string
	SubservicePrice       pgtype.Numeric
	SubserviceDescription pgtype.Text
}

// OrderDetail is everything the order detail view shows.
type OrderDetail struct {
	Group          database.GetOrderGroupRow
	Lines          []database.ListOrderLinesByGroupRow
	ExtraMaterials []database.ListExtraMaterialsByGroupRow
	Payments       []database.Payment
	Summary        Summary
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService. store serves plain reads;
// newStore binds a store to a transaction for writes.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, store: store, newStore: newStore}
}

// CreateOrder validates the request, checks every subservice against the
// catalog and inserts the group with all of its line items atomically.
func (s *OrderService) CreateOrder(ctx context.Context, scope Scope, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}

	if len(req.Services) == 0 {
		return nil, ErrEmptyServices
	}
	if strings.TrimSpace(req.Servicetime) == "" {
		return nil, ErrMissingServiceTime
	}
	servicetime, err := time.Parse(time.RFC3339, req.Servicetime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidServiceTime, err)
	}

	totalPrice := decimal.Zero
	ids := make([]int64, 0, len(req.Services))
	seen := make(map[int64]bool, len(req.Services))
	for i, svc := range req.Services {
		if svc.SubserviceID <= 0 {
			return nil, fmt.Errorf("services[%d]: %w", i, ErrInvalidSubserviceID)
		}
		if svc.ServiceCharge.IsNegative() {
			return nil, fmt.Errorf("services[%d]: %w", i, ErrInvalidServiceCharge)
		}
		// Charges are stored with two decimals; the total must be the sum of the stored values.
		if !svc.ServiceCharge.Equal(svc.ServiceCharge.Round(moneyScale)) {
			return nil, fmt.Errorf("services[%d]: %w", i, ErrServiceChargeScale)
		}
		totalPrice = totalPrice.Add(svc.ServiceCharge)
		if !seen[svc.SubserviceID] {
			seen[svc.SubserviceID] = true
			ids = append(ids, svc.SubserviceID)
		}
	}

	return s.createOrderTx(ctx, scope, req, servicetime, ids, totalPrice)
}

// createOrderTx executes the catalog lookup and all inserts in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, scope Scope, req CreateOrderRequest, servicetime time.Time, ids []int64, totalPrice decimal.Decimal) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Resolve catalog entries in one batch ---
	found, err := store.ListSubservicesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list subservices: %w", err)
	}
	catalog := make(map[int64]database.Subservice, len(found))
	for _, sub := range found {
		catalog[sub.ID] = sub
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &SubserviceNotFoundError{IDs: missing}
	}

	// --- Insert group ---
	group, err := store.CreateOrderGroup(ctx, database.CreateOrderGroupParams{
		UserID:      scope.UserID,
		Name:        optionalText(req.Name),
		Description: optionalText(req.Description),
		Servicetime: servicetime,
		TotalPrice:  decimalToNumeric(totalPrice),
	})
	if err != nil {
		return nil, fmt.Errorf("create order group: %w", err)
	}

	// --- Insert line items ---
	lines := make([]OrderLineResult, 0, len(req.Services))
	for i, svc := range req.Services {
		line, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
			GroupID:       group.ID,
			SubserviceID:  svc.SubserviceID,
			ServiceCharge: decimalToNumeric(svc.ServiceCharge),
		})
		if err != nil {
			return nil, fmt.Errorf("services[%d]: create order line: %w", i, err)
		}
		sub := catalog[svc.SubserviceID]
		lines = append(lines, OrderLineResult{
			Line:                  line,
			SubserviceName:        sub.Name,
			SubservicePrice:       sub.Price,
			SubserviceDescription: sub.Description,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Group: group, Lines: lines}, nil
}

// GetOrder loads an order group owned by the caller with its line items,
// extra materials, payments and ledger totals. A group owned by someone else
// is reported exactly like a missing one.
func (s *OrderService) GetOrder(ctx context.Context, scope Scope, orderID int64) (*OrderDetail, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}

	group, err := s.store.GetOrderGroup(ctx, database.GetOrderGroupParams{
		ID:     orderID,
		UserID: scope.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order group: %w", err)
	}

	lines, err := s.store.ListOrderLinesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}

	materials, err := s.store.ListExtraMaterialsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list extra materials: %w", err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	plain := make([]database.ExtraMaterial, len(materials))
	for i, m := range materials {
		plain[i] = m.ExtraMaterial
	}

	return &OrderDetail{
		Group:          group,
		Lines:          lines,
		ExtraMaterials: materials,
		Payments:       payments,
		Summary:        Summarize(payments, plain),
	}, nil
}

// CancelOrder moves a pending order group to CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, scope Scope, orderID int64) (database.OrderGroup, error) {
	return s.transition(ctx, scope, orderID, database.OrderStatusCANCELLED)
}

// transition reads the current status under a row lock and writes the new
// one in the same transaction, so concurrent callers serialize on the row.
func (s *OrderService) transition(ctx context.Context, scope Scope, orderID int64, to database.OrderStatus) (database.OrderGroup, error) {
	if err := scope.check(); err != nil {
		return database.OrderGroup{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.OrderGroup{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := store.GetOrderGroupForUpdate(ctx, database.GetOrderGroupForUpdateParams{
		ID:     orderID,
		UserID: scope.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.OrderGroup{}, ErrOrderNotFound
		}
		return database.OrderGroup{}, fmt.Errorf("get order group for update: %w", err)
	}

	if err := ValidateTransition(current.Status, to); err != nil {
		return database.OrderGroup{}, err
	}

	updated, err := store.UpdateOrderGroupStatus(ctx, database.UpdateOrderGroupStatusParams{
		ID:         orderID,
		UserID:     scope.UserID,
		Status:     to,
		PrevStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status moved between the locked read and the write.
			return database.OrderGroup{}, &TransitionError{From: current.Status, To: to}
		}
		return database.OrderGroup{}, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.OrderGroup{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// ListOrders returns one page of the caller's order groups, newest first.
func (s *OrderService) ListOrders(ctx context.Context, scope Scope, cursor *int64) (pagination.Page[database.ListOrderGroupsByUserRow], error) {
	if err := scope.check(); err != nil {
		return pagination.Page[database.ListOrderGroupsByUserRow]{}, err
	}

	fetch := func(ctx context.Context, c pgtype.Int8, limit int32) ([]database.ListOrderGroupsByUserRow, error) {
		return s.store.ListOrderGroupsByUser(ctx, database.ListOrderGroupsByUserParams{
			UserID: scope.UserID,
			Cursor: c,
			Limit:  limit,
		})
	}
	page, err := pagination.Seek(ctx, pagination.OrderPageSize, cursor, fetch,
		func(r database.ListOrderGroupsByUserRow) int64 { return r.ID })
	if err != nil {
		return page, fmt.Errorf("list order groups: %w", err)
	}
	return page, nil
}

// --- Helpers ---

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
