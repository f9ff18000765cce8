// Package go2 contains general utility helpers that should've been in Go. Maybe they'll be in Go 2.0.
package go2

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func Pointer[T any](v T) *T {
	return &v
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

func Contains[T comparable](els []T, el T) bool {
	return slices.Contains(els, el)
}

// SortedKeys returns the keys of m in ascending order so iteration is deterministic.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Remove deletes the first occurrence of el, preserving order.
func Remove[T comparable](els []T, el T) []T {
	i := slices.Index(els, el)
	if i < 0 {
		return els
	}
	return append(els[:i:i], els[i+1:]...)
}
