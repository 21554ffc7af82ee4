package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `-- name: CreatePayment :one
INSERT INTO payments (group_id, amount, method, transaction_id, note)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, group_id, amount, method, transaction_id, note, created_at`

type CreatePaymentParams struct {
	GroupID       int64          `json:"group_id"`
	Amount        pgtype.Numeric `json:"amount"`
	Method        string         `json:"method"`
	TransactionID pgtype.Text    `json:"transaction_id"`
	Note          pgtype.Text    `json:"note"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.GroupID,
		arg.Amount,
		arg.Method,
		arg.TransactionID,
		arg.Note,
	)
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.Amount,
		&i.Method,
		&i.TransactionID,
		&i.Note,
		&i.CreatedAt,
	)
	return i, err
}

const listPaymentsByGroup = `-- name: ListPaymentsByGroup :many
SELECT id, group_id, amount, method, transaction_id, note, created_at
FROM payments
WHERE group_id = $1
ORDER BY created_at ASC, id ASC`

func (q *Queries) ListPaymentsByGroup(ctx context.Context, groupID int64) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.Amount,
			&i.Method,
			&i.TransactionID,
			&i.Note,
			&i.CreatedAt,
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

const createExtraMaterial = `-- name: CreateExtraMaterial :one
INSERT INTO extra_materials (group_id, added_by_agent, name, quantity, price, description)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, group_id, added_by_agent, name, quantity, price, description, created_at`

type CreateExtraMaterialParams struct {
	GroupID      int64          `json:"group_id"`
	AddedByAgent int64          `json:"added_by_agent"`
	Name         string         `json:"name"`
	Quantity     int32          `json:"quantity"`
	Price        pgtype.Numeric `json:"price"`
	Description  pgtype.Text    `json:"description"`
}

func (q *Queries) CreateExtraMaterial(ctx context.Context, arg CreateExtraMaterialParams) (ExtraMaterial, error) {
	row := q.db.QueryRow(ctx, createExtraMaterial,
		arg.GroupID,
		arg.AddedByAgent,
		arg.Name,
		arg.Quantity,
		arg.Price,
		arg.Description,
	)
	var i ExtraMaterial
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.AddedByAgent,
		&i.Name,
		&i.Quantity,
		&i.Price,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const listExtraMaterialsByGroup = `-- name: ListExtraMaterialsByGroup :many
SELECT em.id, em.group_id, em.added_by_agent, em.name, em.quantity, em.price, em.description, em.created_at,
       a.name AS added_by_name
FROM extra_materials em
JOIN agents a ON a.id = em.added_by_agent
WHERE em.group_id = $1
ORDER BY em.created_at ASC, em.id ASC`

type ListExtraMaterialsByGroupRow struct {
	ExtraMaterial
	AddedByName string `json:"added_by_name"`
}

func (q *Queries) ListExtraMaterialsByGroup(ctx context.Context, groupID int64) ([]ListExtraMaterialsByGroupRow, error) {
	rows, err := q.db.Query(ctx, listExtraMaterialsByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListExtraMaterialsByGroupRow
	for rows.Next() {
		var i ListExtraMaterialsByGroupRow
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.AddedByAgent,
			&i.Name,
			&i.Quantity,
			&i.Price,
			&i.Description,
			&i.CreatedAt,
			&i.AddedByName,
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
