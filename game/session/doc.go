// Package session provides in-memory session management for 2048 games.
//
// Manager stores service.Session values keyed by a case-insensitive ID. Each
// session owns its own engine, so moves on one board never touch another.
// Generated IDs are 4 hex characters drawn from frand and are retried until
// unused.
//
// Sessions live only as long as the process. Stale ones can be dropped with
// CleanupExpiredSessions:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	if err != nil {
//		return err
//	}
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// NewManagerWithRand injects the tile generator used by new sessions, which
// makes boards reproducible in tests and in seeded play.
package session
