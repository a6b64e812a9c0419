// Package api provides the HTTP REST API for 2048 sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions             create a session ({"config_id": "classic"})
//   - GET    /api/sessions             list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}        session info
//   - DELETE /api/sessions/{id}        drop a session
//
// Game operations:
//   - GET  /api/sessions/{id}/state      current board
//   - POST /api/sessions/{id}/move       {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move  {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset      new board, history kept
//   - GET  /api/sessions/{id}/history    ?page=1&limit=20&order=desc
//
// Move search:
//   - GET  /api/sessions/{id}/hint       ?strategy=expectimax, board untouched
//   - POST /api/sessions/{id}/auto-move  {"strategy": "expectimax", "steps": 10}
//   - GET  /api/strategies
//
// Simulations:
//   - POST /api/simulations       {"strategies": ["random"], "iterations": 10, "seed": 1}
//   - GET  /api/simulations
//   - GET  /api/simulations/{id}
//
// Configuration:
//   - GET  /api/configs
//   - POST /api/configs           body is a game config, optional "config_id"
//   - GET  /api/configs/{name}
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}        websocket state updates
//
// Move tokens are up|w, down|s, left|a and right|d. Anything else is ignored:
// the move endpoint answers 200 with "success": false and an "ignored" event.
//
// Errors are returned as JSON:
//
//	{"error": "session not found: ab12", "code": 404}
//
// Missing sessions, configs and simulation reports map to 404. Bad input,
// invalid configs and unknown strategies map to 400. Anything else is a 500.
package api
