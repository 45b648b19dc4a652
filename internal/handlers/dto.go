package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/repository"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

func decode[T any](src map[string][]string) (T, error) {
	var dto T
	err := decoder.Decode(&dto, src)
	return dto, err
}

type CreateSessionDTO struct {
	Level          string  `schema:"level,required"`
	Seed           *uint64 `schema:"seed"`
	IdempotencyKey string  `schema:"idempotency_key"`
}

func ParseNewSessionDTO(src map[string][]string) (CreateSessionDTO, error) {
	return decode[CreateSessionDTO](src)
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (board.Position, error) {
	dto, err := decode[PositionDTO](src)
	if err != nil {
		return board.Position{}, err
	}
	return board.Position{X: dto.X, Y: dto.Y}, nil
}

type ClueDTO struct {
	Kind     string `schema:"kind,required"`
	Enhanced bool   `schema:"enhanced"`
}

func ParseClueDTO(src map[string][]string) (ClueDTO, error) {
	return decode[ClueDTO](src)
}

type RecordsDTO struct {
	Level string `schema:"level"`
	Limit int    `schema:"limit"`
}

func ParseRecordsDTO(src map[string][]string) (RecordsDTO, error) {
	return decode[RecordsDTO](src)
}

type SessionDTO struct {
	SessionId string       `json:"session_id"`
	Token     string       `json:"token,omitempty"`
	StartedAt int64        `json:"started_at"`
	EndedAt   *int64       `json:"ended_at,omitempty"`
	State     session.View `json:"state"`
}

func NewSessionDTO(row *repository.LevelSession, s *session.Session) SessionDTO {
	dto := SessionDTO{
		SessionId: strconv.FormatInt(row.LevelSessionId, 10),
		StartedAt: row.StartedAt.Time.UnixMilli(),
		State:     s.Snapshot(),
	}
	if row.EndedAt.Valid {
		e := row.EndedAt.Time.UnixMilli()
		dto.EndedAt = &e
	}
	return dto
}

// MoveDTO pairs the outcome of one action with the session after it.
type MoveDTO struct {
	Result  any        `json:"result,omitempty"`
	Session SessionDTO `json:"session"`
}

type LevelDTO struct {
	Name   string              `json:"name"`
	Title  string              `json:"title,omitempty"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Rule   board.AdjacencyRule `json:"rule"`
	Counts level.Counts        `json:"counts"`
}

func NewLevelDTO(l level.Level) LevelDTO {
	return LevelDTO{
		Name:   l.Name,
		Title:  l.Title,
		Width:  l.Width,
		Height: l.Height,
		Rule:   l.Rule,
		Counts: l.Counts,
	}
}
