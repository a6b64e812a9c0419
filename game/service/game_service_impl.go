package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/simulation"
	"github.com/wricardo/g2048/game/solver"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	results  simulation.ResultStore
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance. A nil results store
// disables keeping simulation reports.
func NewGameService(sessions SessionManager, configs ConfigManager, results simulation.ResultStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		results:  results,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	config, err := s.loadConfig(configName)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the input configName if provided, otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().Str("session", session.ID).Str("config", configID).Msg("session created")

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// loadConfig resolves a config name, listing the alternatives when it is unknown
func (s *gameServiceImpl) loadConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}

	// Provide helpful error message with available options
	if errors.Is(err, ErrConfigNotFound) {
		availableConfigs, listErr := s.configs.ListConfigs()
		if listErr == nil && len(availableConfigs) > 0 {
			var configIDs []string
			for _, cfg := range availableConfigs {
				configIDs = append(configIDs, cfg.ConfigID)
			}
			return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
		}
		return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
	}
	return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
}

// getSession looks a session up, keeping ErrSessionNotFound in the chain
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// applyToken plays one token on the session engine. Unknown tokens are
// reported through an "ignored" event and leave the board untouched.
func applyToken(sess *Session, token string, idx int) (StepInfo, []GameEvent, bool) {
	now := time.Now()
	before := sess.Engine.GetState()
	scoreBefore := before.Score

	d, ok := engine.ParseDirection(token)
	if !ok {
		sess.Engine.Move(token)
		return StepInfo{Idx: idx, Dir: token}, []GameEvent{{
			Type:      "ignored",
			Message:   fmt.Sprintf("Ignored unknown move %q", token),
			Timestamp: now,
		}}, false
	}

	success := sess.Engine.Step(d)
	state := sess.Engine.GetState()

	step := StepInfo{
		Idx:         idx,
		Dir:         d.String(),
		ScoreBefore: scoreBefore,
		ScoreAfter:  state.Score,
		EmptyAfter:  state.EmptyCells,
		Success:     success,
		GameOver:    state.GameOver,
	}
	if last := sess.Engine.GetLastMove(); last != nil {
		step.Changed = last.Changed
	}

	var events []GameEvent
	switch {
	case success && step.Changed:
		events = append(events, GameEvent{Type: "move", Message: state.Message, Timestamp: now, Direction: step.Dir})
	case success:
		events = append(events, GameEvent{Type: "no_effect", Message: state.Message, Timestamp: now, Direction: step.Dir})
	}
	if state.GameOver {
		events = append(events, GameEvent{Type: "game_over", Message: state.Message, Timestamp: now, Direction: step.Dir})
	}
	return step, events, success
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to a new board",
		Timestamp: time.Now(),
	}
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Get session
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	// Collect events
	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	step, moveEvents, success := applyToken(sess, direction, 1)
	events = append(events, moveEvents...)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   success,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
	if _, known := engine.ParseDirection(direction); known {
		result.Step = &step
	}

	log.Debug().Str("session", sess.ID).Str("move", direction).Bool("success", success).Int("score", state.Score).Msg("move")
	return result, nil
}

// BulkMove executes multiple moves in sequence. Unknown tokens are skipped;
// execution stops when the game ends.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	// Update last accessed
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Handle reset
	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartScore = sess.Engine.GetScore()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	// Execute moves
	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("game over before move %d", i+1)
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		step, events, ok := applyToken(sess, move, i+1)
		result.Events = append(result.Events, events...)
		if _, known := engine.ParseDirection(move); !known {
			result.IgnoredMoves++
			result.Success = false
			continue
		}

		result.Steps = append(result.Steps, step)
		if ok {
			result.MovesExecuted++
		}
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - result.StartScore
	result.GameOver = endState.GameOver
	result.Message = endState.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = "game_over"
	}

	return result, nil
}

// Reset starts a new board for the session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListStrategies returns every registered strategy
func (s *gameServiceImpl) ListStrategies(ctx context.Context) ([]StrategyInfo, error) {
	infos := solver.Describe()
	result := make([]StrategyInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, StrategyInfo{Name: info.Name, Description: info.Description, Depth: info.Depth})
	}
	return result, nil
}

// Hint returns the move a strategy would play on the session without playing it
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID, strategy string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	name := resolveStrategy(strategy, sess.Config)
	st, err := sess.Strategy(name)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &HintResult{
		SessionID:     sess.ID,
		Strategy:      name,
		Turn:          state.Turns,
		GameOver:      state.GameOver,
		PossibleMoves: sess.Engine.GetPossibleMoves(),
	}
	if state.GameOver {
		return result, nil
	}

	result.Move = st.NextMove(sess.Engine.GetGrid(), state.Turns).String()
	return result, nil
}

// AutoMove lets a strategy play up to steps moves on the session
func (s *gameServiceImpl) AutoMove(ctx context.Context, sessionID, strategy string, steps int) (*AutoMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if steps <= 0 {
		steps = 1
	}
	if steps > engine.MaxBulkMoves {
		steps = engine.MaxBulkMoves
	}

	name := resolveStrategy(strategy, sess.Config)
	st, err := sess.Strategy(name)
	if err != nil {
		return nil, err
	}

	result := &AutoMoveResult{
		Strategy:       name,
		RequestedMoves: steps,
		Moves:          []string{},
		Events:         []GameEvent{},
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if sess.Engine.IsGameOver() {
			break
		}

		move := st.NextMove(sess.Engine.GetGrid(), sess.Engine.GetTurns())
		step, events, ok := applyToken(sess, move.String(), i+1)
		result.Moves = append(result.Moves, step.Dir)
		result.Steps = append(result.Steps, step)
		result.Events = append(result.Events, events...)
		if !ok {
			break
		}
		result.MovesExecuted++
	}

	result.GameState = sess.Engine.GetState()
	result.GameOver = result.GameState.GameOver
	result.Events = append(result.Events, GameEvent{
		Type:      "auto_move",
		Message:   fmt.Sprintf("%s played %d of %d moves", name, result.MovesExecuted, steps),
		Timestamp: time.Now(),
	})

	log.Debug().Str("session", sess.ID).Str("strategy", name).Int("moves", result.MovesExecuted).Msg("auto move")
	return result, nil
}

// RunSimulation plays a batch of games and stores the report
func (s *gameServiceImpl) RunSimulation(ctx context.Context, req SimulationRequest) (*simulation.Report, error) {
	if len(req.Strategies) == 0 {
		return nil, invalidf("at least one strategy is required")
	}
	if req.Iterations <= 0 {
		req.Iterations = 1
	}
	if req.Iterations > MaxSimulationIterations {
		return nil, invalidf("iterations must be at most %d, got %d", MaxSimulationIterations, req.Iterations)
	}
	if req.Depth < 0 || req.Depth > engine.MaxSearchDepth {
		return nil, invalidf("depth must be between 0 and %d, got %d", engine.MaxSearchDepth, req.Depth)
	}
	for _, name := range req.Strategies {
		if _, err := solver.New(name, solver.Options{}); err != nil {
			return nil, err
		}
	}

	config, err := s.loadConfig(req.ConfigName)
	if err != nil {
		return nil, err
	}

	runner := &simulation.Runner{
		Config:     config,
		Strategies: req.Strategies,
		Iterations: req.Iterations,
		MaxTurns:   req.MaxTurns,
		Seed:       req.Seed,
		Options:    solver.Options{Depth: req.Depth, Parallel: req.Parallel},
		Parallel:   req.Parallel,
	}
	report, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	if s.results != nil {
		if err := s.results.Save(report); err != nil {
			log.Warn().Err(err).Str("simulation", report.ID).Msg("failed to store simulation report")
		}
	}

	log.Info().Str("simulation", report.ID).Strs("strategies", req.Strategies).Int("games", len(report.Results)).Msg("simulation finished")
	return report, nil
}

// ListSimulations returns stored reports, newest first
func (s *gameServiceImpl) ListSimulations(ctx context.Context) ([]*SimulationInfo, error) {
	if s.results == nil {
		return []*SimulationInfo{}, nil
	}

	ids, err := s.results.ListAll()
	if err != nil {
		return nil, err
	}

	infos := make([]*SimulationInfo, 0, len(ids))
	for _, id := range ids {
		report, err := s.results.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("simulation", id).Msg("skipping unreadable report")
			continue
		}
		infos = append(infos, &SimulationInfo{
			ID:         report.ID,
			Config:     report.Config,
			StartedAt:  report.StartedAt,
			FinishedAt: report.FinishedAt,
			Iterations: report.Iterations,
			Games:      len(report.Results),
			Summary:    report.Summary,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].StartedAt.After(infos[j].StartedAt) })
	return infos, nil
}

// GetSimulation loads one stored report
func (s *gameServiceImpl) GetSimulation(ctx context.Context, id string) (*simulation.Report, error) {
	if s.results == nil {
		return nil, fmt.Errorf("%w: %s", simulation.ErrResultNotFound, id)
	}
	report, err := s.results.Load(id)
	if errors.Is(err, simulation.ErrInvalidID) {
		return nil, fmt.Errorf("%w: %s", simulation.ErrResultNotFound, id)
	}
	return report, err
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
