package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderGroupColumns = `id, user_id, agent_id, name, description, servicetime, total_price,
       status, payment_status, created_at, updated_at`

const createOrderGroup = `-- name: CreateOrderGroup :one
INSERT INTO order_groups (user_id, name, description, servicetime, total_price)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderGroupColumns

type CreateOrderGroupParams struct {
	UserID      int64          `json:"user_id"`
	Name        pgtype.Text    `json:"name"`
	Description pgtype.Text    `json:"description"`
	Servicetime time.Time      `json:"servicetime"`
	TotalPrice  pgtype.Numeric `json:"total_price"`
}

func (q *Queries) CreateOrderGroup(ctx context.Context, arg CreateOrderGroupParams) (OrderGroup, error) {
	row := q.db.QueryRow(ctx, createOrderGroup,
		arg.UserID,
		arg.Name,
		arg.Description,
		arg.Servicetime,
		arg.TotalPrice,
	)
	var i OrderGroup
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AgentID,
		&i.Name,
		&i.Description,
		&i.Servicetime,
		&i.TotalPrice,
		&i.Status,
		&i.PaymentStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrderLine = `-- name: CreateOrderLine :one
INSERT INTO orders (group_id, subservice_id, service_charge)
VALUES ($1, $2, $3)
RETURNING id, group_id, subservice_id, service_charge, created_at`

type CreateOrderLineParams struct {
	GroupID       int64          `json:"group_id"`
	SubserviceID  int64          `json:"subservice_id"`
	ServiceCharge pgtype.Numeric `json:"service_charge"`
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrderLine, arg.GroupID, arg.SubserviceID, arg.ServiceCharge)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.SubserviceID,
		&i.ServiceCharge,
		&i.CreatedAt,
	)
	return i, err
}

const getOrderGroup = `-- name: GetOrderGroup :one
SELECT og.id, og.user_id, og.agent_id, og.name, og.description, og.servicetime, og.total_price,
       og.status, og.payment_status, og.created_at, og.updated_at,
       a.name AS agent_name, a.type AS agent_type, a.email AS agent_email
FROM order_groups og
LEFT JOIN agents a ON a.id = og.agent_id
WHERE og.id = $1 AND og.user_id = $2`

type GetOrderGroupParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

type GetOrderGroupRow struct {
	OrderGroup
	AgentName  pgtype.Text `json:"agent_name"`
	AgentType  pgtype.Text `json:"agent_type"`
	AgentEmail pgtype.Text `json:"agent_email"`
}

func (q *Queries) GetOrderGroup(ctx context.Context, arg GetOrderGroupParams) (GetOrderGroupRow, error) {
	row := q.db.QueryRow(ctx, getOrderGroup, arg.ID, arg.UserID)
	var i GetOrderGroupRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AgentID,
		&i.Name,
		&i.Description,
		&i.Servicetime,
		&i.TotalPrice,
		&i.Status,
		&i.PaymentStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AgentName,
		&i.AgentType,
		&i.AgentEmail,
	)
	return i, err
}

const getOrderGroupForUpdate = `-- name: GetOrderGroupForUpdate :one
SELECT ` + orderGroupColumns + `
FROM order_groups
WHERE id = $1 AND user_id = $2
FOR UPDATE`

type GetOrderGroupForUpdateParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetOrderGroupForUpdate(ctx context.Context, arg GetOrderGroupForUpdateParams) (OrderGroup, error) {
	row := q.db.QueryRow(ctx, getOrderGroupForUpdate, arg.ID, arg.UserID)
	var i OrderGroup
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AgentID,
		&i.Name,
		&i.Description,
		&i.Servicetime,
		&i.TotalPrice,
		&i.Status,
		&i.PaymentStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateOrderGroupStatus = `-- name: UpdateOrderGroupStatus :one
UPDATE order_groups
SET status = $3, updated_at = now()
WHERE id = $1 AND user_id = $2 AND status = $4
RETURNING ` + orderGroupColumns

// UpdateOrderGroupStatusParams carries the expected current status in
// PrevStatus; the update matches no row when it has already changed.
type UpdateOrderGroupStatusParams struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	Status     OrderStatus `json:"status"`
	PrevStatus OrderStatus `json:"prev_status"`
}

func (q *Queries) UpdateOrderGroupStatus(ctx context.Context, arg UpdateOrderGroupStatusParams) (OrderGroup, error) {
	row := q.db.QueryRow(ctx, updateOrderGroupStatus,
		arg.ID,
		arg.UserID,
		arg.Status,
		arg.PrevStatus,
	)
	var i OrderGroup
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AgentID,
		&i.Name,
		&i.Description,
		&i.Servicetime,
		&i.TotalPrice,
		&i.Status,
		&i.PaymentStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// The cursor is only a seek boundary. When the anchor row is gone the
// predicate falls back to comparing ids.
const listOrderGroupsByUser = `-- name: ListOrderGroupsByUser :many
WITH anchor AS (
    SELECT created_at, id FROM order_groups WHERE id = $2
)
SELECT og.id, og.user_id, og.agent_id, og.name, og.description, og.servicetime, og.total_price,
       og.status, og.payment_status, og.created_at, og.updated_at,
       a.name AS agent_name, a.type AS agent_type
FROM order_groups og
LEFT JOIN agents a ON a.id = og.agent_id
WHERE og.user_id = $1
  AND (
    $2::bigint IS NULL
    OR (EXISTS (SELECT 1 FROM anchor) AND (og.created_at, og.id) < (SELECT created_at, id FROM anchor))
    OR (NOT EXISTS (SELECT 1 FROM anchor) AND og.id < $2)
  )
ORDER BY og.created_at DESC, og.id DESC
LIMIT $3`

type ListOrderGroupsByUserParams struct {
	UserID int64       `json:"user_id"`
	Cursor pgtype.Int8 `json:"cursor"`
	Limit  int32       `json:"limit"`
}

type ListOrderGroupsByUserRow struct {
	OrderGroup
	AgentName pgtype.Text `json:"agent_name"`
	AgentType pgtype.Text `json:"agent_type"`
}

func (q *Queries) ListOrderGroupsByUser(ctx context.Context, arg ListOrderGroupsByUserParams) ([]ListOrderGroupsByUserRow, error) {
	rows, err := q.db.Query(ctx, listOrderGroupsByUser, arg.UserID, arg.Cursor, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderGroupsByUserRow
	for rows.Next() {
		var i ListOrderGroupsByUserRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.AgentID,
			&i.Name,
			&i.Description,
			&i.Servicetime,
			&i.TotalPrice,
			&i.Status,
			&i.PaymentStatus,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.AgentName,
			&i.AgentType,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderLinesByGroup = `-- name: ListOrderLinesByGroup :many
SELECT o.id, o.group_id, o.subservice_id, o.service_charge, o.created_at,
       s.name AS subservice_name, s.price AS subservice_price, s.description AS subservice_description
FROM orders o
JOIN subservices s ON s.id = o.subservice_id
WHERE o.group_id = $1
ORDER BY o.id`

type ListOrderLinesByGroupRow struct {
	Order
	SubserviceName        string         `json:"subservice_name"`
	SubservicePrice       pgtype.Numeric `json:"subservice_price"`
	SubserviceDescription pgtype.Text    `json:"subservice_description"`
}

func (q *Queries) ListOrderLinesByGroup(ctx context.Context, groupID int64) ([]ListOrderLinesByGroupRow, error) {
	rows, err := q.db.Query(ctx, listOrderLinesByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderLinesByGroupRow
	for rows.Next() {
		var i ListOrderLinesByGroupRow
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.SubserviceID,
			&i.ServiceCharge,
			&i.CreatedAt,
			&i.SubserviceName,
			&i.SubservicePrice,
			&i.SubserviceDescription,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
