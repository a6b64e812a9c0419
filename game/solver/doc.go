// Package solver provides move-selection strategies for the 2048 engine.
//
// Every strategy implements Strategy. Fixed-pattern strategies ignore the
// board; greedy strategies score each direction one move ahead; lookahead
// strategies sum heuristic values over every effective move sequence up to a
// fixed depth; Expectimax alternates max nodes over moves with chance nodes
// over tile spawns.
//
// Strategies only read the grid they are handed. Each hypothetical future is
// evaluated on its own engine.Grid clone, which also lets the four root
// branches of Lookahead and Expectimax run in parallel.
//
// Usage:
//
//	s, err := solver.New("expectimax", solver.Options{Parallel: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for turn := 0; grid.Step(s.NextMove(grid, turn), rng); turn++ {
//	}
package solver
