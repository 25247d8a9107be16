// Package lox holds the generic slice helpers samber/lo does not cover in
// the shape the handlers need.
package lox

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
