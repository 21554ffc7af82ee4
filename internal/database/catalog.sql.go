package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createService = `-- name: CreateService :one
INSERT INTO services (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id, name, description, created_at`

type CreateServiceParams struct {
	Name        string      `json:"name"`
	Description pgtype.Text `json:"description"`
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRow(ctx, createService, arg.Name, arg.Description)
	var i Service
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const createSubservice = `-- name: CreateSubservice :one
INSERT INTO subservices (service_id, name, price, description)
VALUES ($1, $2, $3, $4)
ON CONFLICT (service_id, name) DO UPDATE SET description = EXCLUDED.description
RETURNING id, service_id, name, price, description, created_at`

type CreateSubserviceParams struct {
	ServiceID   int64          `json:"service_id"`
	Name        string         `json:"name"`
	Price       pgtype.Numeric `json:"price"`
	Description pgtype.Text    `json:"description"`
}

func (q *Queries) CreateSubservice(ctx context.Context, arg CreateSubserviceParams) (Subservice, error) {
	row := q.db.QueryRow(ctx, createSubservice,
		arg.ServiceID,
		arg.Name,
		arg.Price,
		arg.Description,
	)
	var i Subservice
	err := row.Scan(
		&i.ID,
		&i.ServiceID,
		&i.Name,
		&i.Price,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const listSubservicesByIDs = `-- name: ListSubservicesByIDs :many
SELECT id, service_id, name, price, description, created_at
FROM subservices
WHERE id = ANY($1::bigint[])
ORDER BY id`

func (q *Queries) ListSubservicesByIDs(ctx context.Context, ids []int64) ([]Subservice, error) {
	rows, err := q.db.Query(ctx, listSubservicesByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subservice
	for rows.Next() {
		var i Subservice
		if err := rows.Scan(
			&i.ID,
			&i.ServiceID,
			&i.Name,
			&i.Price,
			&i.Description,
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

const updateSubservicePrice = `-- name: UpdateSubservicePrice :one
UPDATE subservices
SET price = $2
WHERE id = $1
RETURNING id, service_id, name, price, description, created_at`

type UpdateSubservicePriceParams struct {
	ID    int64          `json:"id"`
	Price pgtype.Numeric `json:"price"`
}

func (q *Queries) UpdateSubservicePrice(ctx context.Context, arg UpdateSubservicePriceParams) (Subservice, error) {
	row := q.db.QueryRow(ctx, updateSubservicePrice, arg.ID, arg.Price)
	var i Subservice
	err := row.Scan(
		&i.ID,
		&i.ServiceID,
		&i.Name,
		&i.Price,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}
