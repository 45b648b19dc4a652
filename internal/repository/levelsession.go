package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type LevelSession struct {
	LevelSessionId int64
	IdempotencyKey *string
	Level          string
	Turn           int
	Status         string
	Seed           int64
	State          []byte
	StartedAt      pgtype.Timestamptz
	EndedAt        pgtype.Timestamptz
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type CreateLevelSessionParams struct {
	IdempotencyKey *string
	Level          string
	Turn           int
	Status         string
	Seed           int64
	State          []byte
}

func (q *Queries) CreateLevelSession(
	ctx context.Context, params CreateLevelSessionParams,
) (*LevelSession, error) {
	args := pgx.NamedArgs{
		"idempotency_key": params.IdempotencyKey,
		"level":           params.Level,
		"turn":            params.Turn,
		"status":          params.Status,
		"seed":            params.Seed,
		"state":           params.State,
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO level_session (
			idempotency_key, level, turn, status, seed, state
		)
		VALUES (
			@idempotency_key, @level, @turn, @status, @seed, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelSession])
}

func (q *Queries) FetchLevelSession(ctx context.Context, id int64) (*LevelSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM level_session WHERE level_session_id = $1",
		id,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelSession])
}

type UpdateLevelSessionParams struct {
	Turn    *int
	Status  *string
	EndedAt *time.Time
	State   *[]byte
}

func (p UpdateLevelSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Turn != nil {
		parts = append(parts, "turn = @turn")
		args["turn"] = *p.Turn
	}
	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateLevelSession(
	ctx context.Context, id int64, params UpdateLevelSessionParams,
) (*LevelSession, error) {
	setClause, args := params.SetClause()
	if setClause == "" {
		return q.FetchLevelSession(ctx, id)
	}
	args["level_session_id"] = id
	rows, _ := q.db.Query(
		ctx,
		"UPDATE level_session SET "+setClause+" WHERE level_session_id = @level_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelSession])
}
