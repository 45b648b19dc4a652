// custom query
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// LevelRecord is one won session, ranked by turns and then by wall time.
type LevelRecord struct {
	LevelSessionId int64   `json:"level_session_id"`
	Level          string  `json:"level"`
	Turn           int     `json:"turns"`
	PlaytimeMs     float64 `json:"playtime_ms"`
}

type RecordFilter struct {
	Level *string
	Limit int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Level != nil {
		clauses = append(clauses, "level = @level")
		args["level"] = *f.Level
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetLevelRecords(
	ctx context.Context, filter RecordFilter,
) ([]LevelRecord, error) {
	query := `
	SELECT
		level_session_id,
		level,
		turn,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM level_session
	WHERE
		status = 'won'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY turn, playtime_ms"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LevelRecord])
}
