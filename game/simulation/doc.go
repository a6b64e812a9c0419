// Package simulation plays many games per strategy and records the outcomes.
//
// A Runner creates a fresh grid and a fresh strategy instance for every game,
// then loops NextMove and Step until Step fails or the turn cap is hit. The
// resulting Report counts how often each (score, turns) outcome occurred and
// can be written to disk through a ResultStore. Reports are results only;
// nothing resumes a game from them.
package simulation
