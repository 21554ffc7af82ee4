package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/enum"
)

var (
	ErrInvalidPaymentAmount = errors.New("payment amount must be >= 0")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingMaterialName  = errors.New("material name is required")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidMaterialPrice = errors.New("material price must be >= 0")
)

// Summary is the read-side aggregation of an order group's ledger.
type Summary struct {
	TotalPaid          decimal.Decimal
	ExtraMaterialTotal decimal.Decimal
}

// Summarize totals payments and extra materials. Rows are never modified,
// so the totals are always recomputed from the full ledger.
func Summarize(payments []database.Payment, materials []database.ExtraMaterial) Summary {
	sum := Summary{TotalPaid: decimal.Zero, ExtraMaterialTotal: decimal.Zero}
	for _, p := range payments {
		sum.TotalPaid = sum.TotalPaid.Add(numericToDecimal(p.Amount))
	}
	for _, m := range materials {
		line := numericToDecimal(m.Price).Mul(decimal.NewFromInt32(m.Quantity))
		sum.ExtraMaterialTotal = sum.ExtraMaterialTotal.Add(line)
	}
	return sum
}

// LedgerStore defines the DB methods needed to append ledger rows.
type LedgerStore interface {
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	CreateExtraMaterial(ctx context.Context, arg database.CreateExtraMaterialParams) (database.ExtraMaterial, error)
}

// RecordPaymentRequest is the input for appending a payment.
type RecordPaymentRequest struct {
	GroupID       int64
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	Note          string
}

// RecordExtraMaterialRequest is the input for appending an extra material.
type RecordExtraMaterialRequest struct {
	GroupID      int64
	AddedByAgent int64
	Name         string
	Quantity     int32
	Price        decimal.Decimal
	Description  string
}

// LedgerService appends payments and extra materials to an order group.
// Rows are insert-only; there is no update or delete path.
type LedgerService struct {
	store LedgerStore
}

func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (database.Payment, error) {
	if req.GroupID <= 0 {
		return database.Payment{}, ErrOrderNotFound
	}
	if req.Amount.IsNegative() {
		return database.Payment{}, ErrInvalidPaymentAmount
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if !enum.IsPaymentMethod(method) {
		return database.Payment{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.Method)
	}

	p, err := s.store.CreatePayment(ctx, database.CreatePaymentParams{
		GroupID:       req.GroupID,
		Amount:        decimalToNumeric(req.Amount),
		Method:        method,
		TransactionID: optionalText(req.TransactionID),
		Note:          optionalText(req.Note),
	})
	if err != nil {
		return database.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

func (s *LedgerService) RecordExtraMaterial(ctx context.Context, req RecordExtraMaterialRequest) (database.ExtraMaterial, error) {
	if req.GroupID <= 0 {
		return database.ExtraMaterial{}, ErrOrderNotFound
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return database.ExtraMaterial{}, ErrMissingMaterialName
	}
	if req.Quantity <= 0 {
		return database.ExtraMaterial{}, ErrInvalidQuantity
	}
	if req.Price.IsNegative() {
		return database.ExtraMaterial{}, ErrInvalidMaterialPrice
	}

	m, err := s.store.CreateExtraMaterial(ctx, database.CreateExtraMaterialParams{
		GroupID:      req.GroupID,
		AddedByAgent: req.AddedByAgent,
		Name:         name,
		Quantity:     req.Quantity,
		Price:        decimalToNumeric(req.Price),
		Description:  optionalText(req.Description),
	})
	if err != nil {
		return database.ExtraMaterial{}, fmt.Errorf("create extra material: %w", err)
	}
	return m, nil
}

