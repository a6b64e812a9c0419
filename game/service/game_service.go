package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/simulation"
	"github.com/wricardo/g2048/game/solver"
)

// Errors shared with the session and config packages so transports can map them
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownStrategy = solver.ErrUnknownStrategy
	ErrInvalidRequest  = errors.New("invalid request")
)

// Limits applied to requests coming from the transports
const (
	MaxSimulationIterations = 100
	DefaultHintStrategy     = "expectimax"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Move Search
	ListStrategies(ctx context.Context) ([]StrategyInfo, error)
	Hint(ctx context.Context, sessionID, strategy string) (*HintResult, error)
	AutoMove(ctx context.Context, sessionID, strategy string, steps int) (*AutoMoveResult, error)

	// Simulation
	RunSimulation(ctx context.Context, req SimulationRequest) (*simulation.Report, error)
	ListSimulations(ctx context.Context) ([]*SimulationInfo, error)
	GetSimulation(ctx context.Context, id string) (*simulation.Report, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Strategy instances keep their tie-break rotation between calls
	strategies map[string]solver.Strategy
	mu         sync.Mutex
}

// Strategy returns the session's instance of the named strategy, creating it on first use
func (s *Session) Strategy(name string) (solver.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.strategies[name]; ok {
		return st, nil
	}

	// The config depth tunes expectimax only; the lookahead strategies keep
	// the depths they are registered with
	opts := solver.Options{}
	if s.Config != nil && name == DefaultHintStrategy {
		opts.Depth = s.Config.SearchDepth
	}
	st, err := solver.New(name, opts)
	if err != nil {
		return nil, err
	}

	if s.strategies == nil {
		s.strategies = make(map[string]solver.Strategy)
	}
	s.strategies[name] = st
	return st, nil
}

// resolveStrategy picks the requested strategy, then the config default, then expectimax
func resolveStrategy(name string, config *engine.GameConfig) string {
	if name != "" {
		return name
	}
	if config != nil && config.DefaultStrategy != "" {
		return config.DefaultStrategy
	}
	return DefaultHintStrategy
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
