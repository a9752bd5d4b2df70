// Package anneal implements the temperature schedule and acceptance rule used
// by the crossing-minimization search.
//
// # Schedule
//
// A [Schedule] starts at [Params.InitialTemp] and is advanced once per full
// sweep by [Schedule.Cool]:
//
//	T ← max(T·α, Tmin)
//
// When T has reached Tmin and reheats remain, T is reset to the initial
// temperature and the reheat counter is decremented. A cooling rate of 1
// keeps the temperature fixed, which is what [Fixed] builds for single-layer
// tuning.
//
// # Acceptance
//
// Uphill moves are decided by an [AcceptFunc]. The default, [Metropolis],
// accepts improvements unconditionally and a worsening of Δ with probability
// exp(−Δ/T). At T = 0 no worsening move is ever accepted, so the search
// degrades to strict local descent.
//
// Randomness always comes from an explicit [Source]; nothing in this package
// touches global random state.
package anneal
