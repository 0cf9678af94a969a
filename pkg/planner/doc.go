// Package planner holds the deterministic planning core of vineyard: the
// multi-year farming timeline, the plant layout calculation and the
// seasonal activity calendar.
//
// Every function in this package is pure. Results are freshly allocated on
// each call, so callers may modify them and may call from any goroutine.
package planner
