package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password, address, pin, profilepic)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, password, address, pin, profilepic, created_at, updated_at`

type CreateUserParams struct {
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Address    string      `json:"address"`
	Pin        string      `json:"pin"`
	Profilepic pgtype.Text `json:"profilepic"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email,
		arg.Password,
		arg.Address,
		arg.Pin,
		arg.Profilepic,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Password,
		&i.Address,
		&i.Pin,
		&i.Profilepic,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, password, address, pin, profilepic, created_at, updated_at
FROM users
WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Password,
		&i.Address,
		&i.Pin,
		&i.Profilepic,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users
SET address    = COALESCE($2, address),
    pin        = COALESCE($3, pin),
    profilepic = COALESCE($4, profilepic),
    updated_at = now()
WHERE id = $1
RETURNING id, email, password, address, pin, profilepic, created_at, updated_at`

// UpdateUserProfileParams leaves a column untouched when its field is not Valid.
type UpdateUserProfileParams struct {
	ID         int64       `json:"id"`
	Address    pgtype.Text `json:"address"`
	Pin        pgtype.Text `json:"pin"`
	Profilepic pgtype.Text `json:"profilepic"`
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserProfile,
		arg.ID,
		arg.Address,
		arg.Pin,
		arg.Profilepic,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Password,
		&i.Address,
		&i.Pin,
		&i.Profilepic,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const agentColumns = `id, email, password, name, type, address, pin, profilepic, id_proof, address_proof,
       is_verified, is_available, created_at`

const createAgent = `-- name: CreateAgent :one
INSERT INTO agents (email, password, name, type, address, pin, profilepic, id_proof, address_proof)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + agentColumns

type CreateAgentParams struct {
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Address      string      `json:"address"`
	Pin          string      `json:"pin"`
	Profilepic   pgtype.Text `json:"profilepic"`
	IDProof      pgtype.Text `json:"id_proof"`
	AddressProof pgtype.Text `json:"address_proof"`
}

func (q *Queries) CreateAgent(ctx context.Context, arg CreateAgentParams) (Agent, error) {
	row := q.db.QueryRow(ctx, createAgent,
		arg.Email,
		arg.Password,
		arg.Name,
		arg.Type,
		arg.Address,
		arg.Pin,
		arg.Profilepic,
		arg.IDProof,
		arg.AddressProof,
	)
	return scanAgent(row)
}

const getAgentByEmail = `-- name: GetAgentByEmail :one
SELECT ` + agentColumns + `
FROM agents
WHERE email = $1`

func (q *Queries) GetAgentByEmail(ctx context.Context, email string) (Agent, error) {
	return scanAgent(q.db.QueryRow(ctx, getAgentByEmail, email))
}

func scanAgent(row interface{ Scan(dest ...any) error }) (Agent, error) {
	var i Agent
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Password,
		&i.Name,
		&i.Type,
		&i.Address,
		&i.Pin,
		&i.Profilepic,
		&i.IDProof,
		&i.AddressProof,
		&i.IsVerified,
		&i.IsAvailable,
		&i.CreatedAt,
	)
	return i, err
}

const createAdmin = `-- name: CreateAdmin :one
INSERT INTO admins (email, password)
VALUES ($1, $2)
RETURNING id, email, password, created_at`

type CreateAdminParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	row := q.db.QueryRow(ctx, createAdmin, arg.Email, arg.Password)
	var i Admin
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.CreatedAt)
	return i, err
}

const getAdminByEmail = `-- name: GetAdminByEmail :one
SELECT id, email, password, created_at
FROM admins
WHERE email = $1`

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := q.db.QueryRow(ctx, getAdminByEmail, email)
	var i Admin
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.CreatedAt)
	return i, err
}
