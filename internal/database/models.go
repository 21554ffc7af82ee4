package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type OrderStatus string

const (
	OrderStatusPENDING    OrderStatus = "PENDING"
	OrderStatusINPROGRESS OrderStatus = "IN_PROGRESS"
	OrderStatusCOMPLETED  OrderStatus = "COMPLETED"
	OrderStatusCANCELLED  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUNPAID  PaymentStatus = "UNPAID"
	PaymentStatusPARTIAL PaymentStatus = "PARTIAL"
	PaymentStatusPAID    PaymentStatus = "PAID"
)

type User struct {
	ID         int64       `json:"id"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Address    string      `json:"address"`
	Pin        string      `json:"pin"`
	Profilepic pgtype.Text `json:"profilepic"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Agent struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Address      string      `json:"address"`
	Pin          string      `json:"pin"`
	Profilepic   pgtype.Text `json:"profilepic"`
	IDProof      pgtype.Text `json:"id_proof"`
	AddressProof pgtype.Text `json:"address_proof"`
	IsVerified   bool        `json:"is_verified"`
	IsAvailable  bool        `json:"is_available"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Admin struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description pgtype.Text `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Subservice struct {
	ID          int64          `json:"id"`
	ServiceID   int64          `json:"service_id"`
	Name        string         `json:"name"`
	Price       pgtype.Numeric `json:"price"`
	Description pgtype.Text    `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
}

type OrderGroup struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	AgentID       pgtype.Int8    `json:"agent_id"`
	Name          pgtype.Text    `json:"name"`
	Description   pgtype.Text    `json:"description"`
	Servicetime   time.Time      `json:"servicetime"`
	TotalPrice    pgtype.Numeric `json:"total_price"`
	Status        OrderStatus    `json:"status"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Order is one line item of an OrderGroup.
type Order struct {
	ID            int64          `json:"id"`
	GroupID       int64          `json:"group_id"`
	SubserviceID  int64          `json:"subservice_id"`
	ServiceCharge pgtype.Numeric `json:"service_charge"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Payment struct {
	ID            int64          `json:"id"`
	GroupID       int64          `json:"group_id"`
	Amount        pgtype.Numeric `json:"amount"`
	Method        string         `json:"method"`
	TransactionID pgtype.Text    `json:"transaction_id"`
	Note          pgtype.Text    `json:"note"`
	CreatedAt     time.Time      `json:"created_at"`
}

type ExtraMaterial struct {
	ID           int64          `json:"id"`
	GroupID      int64          `json:"group_id"`
	AddedByAgent int64          `json:"added_by_agent"`
	Name         string         `json:"name"`
	Quantity     int32          `json:"quantity"`
	Price        pgtype.Numeric `json:"price"`
	Description  pgtype.Text    `json:"description"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
