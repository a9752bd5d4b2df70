// Package perm enumerates permutations of small index sets.
//
// Exhaustive orderers and tests use it to find the true minimum crossing
// count of tiny layers, which the annealer is checked against.
package perm

import (
	"iter"
	"slices"
)

// Seq returns [0, 1, ..., n-1]. For n <= 0 it returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, or 1 for n <= 1. It overflows int beyond 20!.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// All yields every permutation of [0, n) exactly once using Heap's
// algorithm. The yielded slice is reused between iterations; clone it to
// keep it. n <= 0 yields a single empty permutation.
func All(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		p := Seq(n)
		if !yield(p) {
			return
		}
		state := make([]int, len(p))
		for i := 0; i < len(p); {
			if state[i] < i {
				if i%2 == 0 {
					p[0], p[i] = p[i], p[0]
				} else {
					p[state[i]], p[i] = p[i], p[state[i]]
				}
				if !yield(p) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}

// Generate collects permutations from [All]. If limit > 0 at most limit
// permutations are returned. Each slice is a separate allocation.
func Generate(n, limit int) [][]int {
	var out [][]int
	if limit <= 0 && n <= 10 {
		out = make([][]int, 0, Factorial(n))
	}
	for p := range All(n) {
		out = append(out, slices.Clone(p))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Apply returns items reordered by p: result[i] = items[p[i]].
func Apply[T any](items []T, p []int) []T {
	out := make([]T, len(p))
	for i, j := range p {
		out[i] = items[j]
	}
	return out
}
