package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestUpdateLevelSessionSetClause(t *testing.T) {
	turn := 4
	status := "won"
	ended := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state := []byte{1, 2, 3}

	tests := []struct {
		name   string
		params UpdateLevelSessionParams
		clause string
		args   map[string]any
	}{
		{"empty", UpdateLevelSessionParams{}, "", map[string]any{}},
		{
			"turn only",
			UpdateLevelSessionParams{Turn: &turn},
			"turn = @turn",
			map[string]any{"turn": 4},
		},
		{
			"all",
			UpdateLevelSessionParams{Turn: &turn, Status: &status, EndedAt: &ended, State: &state},
			"turn = @turn, status = @status, ended_at = @ended_at, state = @state",
			map[string]any{"turn": 4, "status": "won", "ended_at": ended, "state": state},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.params.SetClause()
			assert.Equal(t, tt.clause, clause)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestRecordFilterWhereClause(t *testing.T) {
	clause, args := RecordFilter{}.WhereClause()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	level := "meadow"
	clause, args = RecordFilter{Level: &level}.WhereClause()
	assert.Equal(t, "level = @level", clause)
	assert.Equal(t, pgx.NamedArgs{"level": "meadow"}, args)
}
