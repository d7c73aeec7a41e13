// Package normalize turns raw LLM output into structured recipe and
// substitution data. Every function here is pure: no I/O and no shared
// mutable state, so it is safe to call from any number of goroutines.
package normalize
