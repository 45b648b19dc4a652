package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/repository"
)

type LevelHandler struct {
	logger *slog.Logger
	store  Store
	levels *level.Catalogue
}

func NewLevelHandler(logger *slog.Logger, store Store, levels *level.Catalogue) *LevelHandler {
	return &LevelHandler{logger: logger, store: store, levels: levels}
}

func (h *LevelHandler) Levels(w http.ResponseWriter, r *http.Request) {
	dtos := make([]LevelDTO, 0, len(h.levels.Levels))
	for _, l := range h.levels.Levels {
		dtos = append(dtos, NewLevelDTO(l))
	}
	sendJSONOrLog(w, h.logger, dtos)
}

func (h *LevelHandler) Records(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseRecordsDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	filter := repository.RecordFilter{Limit: dto.Limit}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	if dto.Level != "" {
		if _, err := h.levels.Lookup(dto.Level); err != nil {
			sendError(w, h.logger, http.StatusNotFound, err)
			return
		}
		filter.Level = &dto.Level
	}
	records, err := h.store.GetLevelRecords(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch records", slog.Any("error", err))
		return
	}
	if records == nil {
		records = []repository.LevelRecord{}
	}
	sendJSONOrLog(w, h.logger, records)
}
