package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GameMetrics aggregates the gameplay collectors exposed on /metrics.
type GameMetrics struct {
	RoomsActive    prometheus.Gauge
	PlayersOnline  prometheus.Gauge
	RoundsPlayed   prometheus.Counter
	GamesCompleted prometheus.Counter
	CorrectGuesses prometheus.Counter
	StrokesDrawn   prometheus.Counter
}

func NewGameMetrics() *GameMetrics {
	return &GameMetrics{
		RoomsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "scrawl",
			Name:      "rooms_active",
			Help:      "Number of live rooms.",
		}),
		PlayersOnline: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "scrawl",
			Name:      "players_online",
			Help:      "Number of connected players across all rooms.",
		}),
		RoundsPlayed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "scrawl",
			Name:      "rounds_played_total",
			Help:      "Total rounds ended.",
		}),
		GamesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "scrawl",
			Name:      "games_completed_total",
			Help:      "Total games reaching game over.",
		}),
		CorrectGuesses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "scrawl",
			Name:      "correct_guesses_total",
			Help:      "Total correct guesses scored.",
		}),
		StrokesDrawn: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "scrawl",
			Name:      "strokes_drawn_total",
			Help:      "Total strokes appended to round ledgers.",
		}),
	}
}
