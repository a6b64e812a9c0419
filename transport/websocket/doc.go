// Package websocket pushes live board updates to browsers watching a session.
//
// A Hub keeps the clients of every session. Clients connect with
// /ws?session=<id> and only receive messages for that session. The REST
// handlers call BroadcastToSession after each state change and BroadcastEvent
// for notable events such as game_over or auto_move.
//
// Outgoing messages are JSON, one per frame:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "game_over", "data": {...}}
//
// Incoming frames are read only to keep ping/pong alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
