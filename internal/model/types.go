// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/minutetype/internal/engine"
)

// Config defines typing test settings after flags and the config file are merged.
type Config struct {
	Lang     string        `validate:"required,min=2"`
	WordList string        `validate:"omitempty,filepath"`
	CapsPct  float64       `validate:"gte=0,lte=1"`
	PunctPct float64       `validate:"gte=0,lte=1"`
	PunctSet string        `validate:"required"`
	Save     bool
	Tiers    []engine.Tier `validate:"required,min=1,dive"`
}

// HistoryFilter selects stored results for reporting.
type HistoryFilter struct {
	Lang   string
	Since  *time.Time
	Last   int `validate:"gte=0"`
	Window int `validate:"gte=0"`
}

// Result is a finished test as stored and exported.
type Result struct {
	ID             string    `json:"id" yaml:"id"`
	StartedAt      time.Time `json:"started_at" yaml:"started_at"`
	EndedAt        time.Time `json:"ended_at" yaml:"ended_at"`
	Lang           string    `json:"lang" yaml:"lang"`
	WordSource     string    `json:"word_source" yaml:"word_source"`
	WPM            int       `json:"wpm" yaml:"wpm"`
	CPM            int       `json:"cpm" yaml:"cpm"`
	CorrectWords   int       `json:"correct_words" yaml:"correct_words"`
	IncorrectWords int       `json:"incorrect_words" yaml:"incorrect_words"`
	TypedChars     int       `json:"typed_chars" yaml:"typed_chars"`
	Accuracy       int       `json:"accuracy" yaml:"accuracy"`
	Tier           string    `json:"tier" yaml:"tier"`
	TierIcon       string    `json:"tier_icon" yaml:"tier_icon"`
}

// NewResult converts an engine result into a storable record.
func NewResult(id string, startedAt, endedAt time.Time, lang, source string, r engine.Result) Result {
	return Result{
		ID:             id,
		StartedAt:      startedAt,
		EndedAt:        endedAt,
		Lang:           lang,
		WordSource:     source,
		WPM:            r.WPM,
		CPM:            r.CPM,
		CorrectWords:   r.CorrectWords,
		IncorrectWords: r.IncorrectWords,
		TypedChars:     r.TypedChars,
		Accuracy:       r.Accuracy,
		Tier:           r.Tier.Name,
		TierIcon:       r.Tier.Icon,
	}
}

// Mistake records one mistyped word of a result.
type Mistake struct {
	Position int    `json:"position" yaml:"position"`
	Word     string `json:"word" yaml:"word"`
	Typed    string `json:"typed" yaml:"typed"`
}

// WordAggregate counts how often a word was mistyped across results.
type WordAggregate struct {
	Word   string
	Misses int
}
