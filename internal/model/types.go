// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Scheme      string  `validate:"required"`
	Drill       string
	RandomWords int     `validate:"gte=0,lte=1000"`
	FocusWeak   bool
	WeakTop     int     `validate:"gte=0"`
	WeakFactor  float64 `validate:"gte=0,lte=1"`
	Watch       bool
}

// LogConfig selects where and how much to log.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
	File  string
}

// UnitStats counts outcomes for one unit, keyed by its display text.
type UnitStats struct {
	Unit      string
	Correct   int
	Incorrect int
}

// Attempts counts every judged try.
func (u UnitStats) Attempts() int {
	return u.Correct + u.Incorrect
}

// SessionSummary describes a finished or abandoned practice run.
type SessionSummary struct {
	Scheme     string
	Title      string
	Units      int
	Done       int
	Correct    int
	Incorrect  int
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMs int64
	// Misses counts misses per unit in exercise order.
	Misses []float64
}

// SavedDrill is a custom answer text kept in the local store.
type SavedDrill struct {
	ID          string
	Scheme      string
	Title       string
	Answer      string
	Caption     string
	CaptionMode string
	Source      string
	CreatedAt   time.Time
}
