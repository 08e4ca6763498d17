package engine

import "fmt"

// Tier is a named performance bracket keyed by a minimum WPM.
type Tier struct {
	WPM  int    `json:"wpm" yaml:"wpm" validate:"gte=0"`
	Name string `json:"name" yaml:"name" validate:"required"`
	Icon string `json:"icon" yaml:"icon"`
}

// DefaultTiers returns the built-in brackets, ascending by threshold.
func DefaultTiers() []Tier {
	return []Tier{
		{WPM: 0, Name: "Sloth", Icon: "🦥"},
		{WPM: 20, Name: "Turtle", Icon: "🐢"},
		{WPM: 40, Name: "Rabbit", Icon: "🐇"},
		{WPM: 60, Name: "Cheetah", Icon: "🐆"},
		{WPM: 80, Name: "Falcon", Icon: "🦅"},
	}
}

// ResolveTier picks the tier with the greatest threshold not above wpm.
// The first tier is the fallback.
func ResolveTier(tiers []Tier, wpm int) Tier {
	if len(tiers) == 0 {
		return Tier{}
	}
	chosen := tiers[0]
	for _, t := range tiers {
		if wpm >= t.WPM {
			chosen = t
		}
	}
	return chosen
}

// ValidateTiers checks that tiers ascend strictly and start at zero.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}
	if tiers[0].WPM != 0 {
		return fmt.Errorf("first tier must start at 0 wpm, got %d", tiers[0].WPM)
	}
	for i, t := range tiers {
		if t.Name == "" {
			return fmt.Errorf("tier %d has no name", i)
		}
		if i > 0 && t.WPM <= tiers[i-1].WPM {
			return fmt.Errorf("tier %q threshold %d must exceed %d", t.Name, t.WPM, tiers[i-1].WPM)
		}
	}
	return nil
}

// Encouragement returns a short remark for a final WPM.
func Encouragement(wpm int) string {
	switch {
	case wpm < 20:
		return "Keep practicing to improve your speed!"
	case wpm < 40:
		return "Good job! You're making progress."
	case wpm < 60:
		return "Impressive! You're faster than average."
	case wpm < 80:
		return "Amazing speed! You're a natural."
	default:
		return "Incredible! You're among the fastest typists!"
	}
}
