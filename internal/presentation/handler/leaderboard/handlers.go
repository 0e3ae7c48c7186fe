package leaderboard

import (
	"net/http"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/infrastructure/json"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
)

type Handler struct {
	repo   domain.LeaderboardRepository
	limit  int64
	logger logging.Logger
}

func NewHandler(repo domain.LeaderboardRepository, limit int64, logger logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		limit:  limit,
		logger: logger,
	}
}

// GetLeaderboardHandler serves the most recent scores across all rooms,
// newest first.
func (h *Handler) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		json.Write(w, http.StatusOK, leaderboardResponse{OK: true, Entries: []entry{}})
		return
	}

	records, err := h.repo.MostRecent(r.Context(), h.limit)
	if err != nil {
		h.logger.Error(logging.Mongo, logging.Persistence, "leaderboard lookup failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}

	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entry{
			Name:  rec.PlayerName,
			Score: rec.Score,
			Room:  rec.RoomCode,
			When:  rec.CreatedAt.UnixMilli(),
		})
	}

	json.Write(w, http.StatusOK, leaderboardResponse{OK: true, Entries: entries})
}
