package service

import (
	"time"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/simulation"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	IgnoredMoves   int               `json:"ignored_moves,omitempty"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int    `json:"idx"`
	Dir         string `json:"dir"`
	Changed     bool   `json:"changed"`
	ScoreBefore int    `json:"score_before"`
	ScoreAfter  int    `json:"score_after"`
	EmptyAfter  int    `json:"empty_after"`
	Success     bool   `json:"success"`
	GameOver    bool   `json:"game_over,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "no_effect", "ignored", "game_over", "reset", "auto_move"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename        string `json:"filename"`
	ConfigID        string `json:"config_id"` // The identifier to use for session creation
	Name            string `json:"name"`      // Display name
	Description     string `json:"description"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	DefaultStrategy string `json:"default_strategy,omitempty"`
}

// StrategyInfo describes a strategy available for hints, auto moves and simulations
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Depth       int    `json:"depth,omitempty"`
}

// HintResult is the move a strategy would play, without playing it
type HintResult struct {
	SessionID     string   `json:"session_id"`
	Strategy      string   `json:"strategy"`
	Move          string   `json:"move,omitempty"`
	Turn          int      `json:"turn"`
	GameOver      bool     `json:"game_over"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// AutoMoveResult contains the moves a strategy played on a session
type AutoMoveResult struct {
	Strategy       string            `json:"strategy"`
	RequestedMoves int               `json:"requested_moves"`
	MovesExecuted  int               `json:"moves_executed"`
	Moves          []string          `json:"moves"`
	Steps          []StepInfo        `json:"steps,omitempty"`
	GameState      *engine.GameState `json:"game_state"`
	GameOver       bool              `json:"game_over"`
	Events         []GameEvent       `json:"events"`
}

// SimulationRequest configures a batch of strategy games
type SimulationRequest struct {
	ConfigName string   `json:"config_name,omitempty"`
	Strategies []string `json:"strategies"`
	Iterations int      `json:"iterations"`
	MaxTurns   int      `json:"max_turns,omitempty"`
	Seed       uint64   `json:"seed,omitempty"`
	Depth      int      `json:"depth,omitempty"`
	Parallel   bool     `json:"parallel,omitempty"`
}

// SimulationInfo is the listing view of a stored simulation report
type SimulationInfo struct {
	ID         string                       `json:"id"`
	Config     string                       `json:"config"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
	Iterations int                          `json:"iterations"`
	Games      int                          `json:"games"`
	Summary    []simulation.StrategySummary `json:"summary"`
}
