package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/minutetype/internal/engine"
	"github.com/verte-zerg/minutetype/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldFlags = map[string]string{
	"Lang":     "--lang",
	"WordList": "--wordlist",
	"CapsPct":  "--caps",
	"PunctPct": "--punct",
	"PunctSet": "--punct-set",
	"Tiers":    "[[tiers]]",
	"Last":     "--last",
	"Window":   "--window",
}

// TierList converts [[tiers]] entries, or returns the defaults when none are configured.
func (c FileConfig) TierList() []engine.Tier {
	if len(c.Tiers) == 0 {
		return engine.DefaultTiers()
	}
	tiers := make([]engine.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, engine.Tier{WPM: t.WPM, Name: t.Name, Icon: t.Icon})
	}
	return tiers
}

// Validate checks a merged test configuration.
func Validate(cfg model.Config) error {
	if err := validateStruct(cfg); err != nil {
		return err
	}
	if err := engine.ValidateTiers(cfg.Tiers); err != nil {
		return fmt.Errorf("invalid [[tiers]]: %w", err)
	}
	return nil
}

// ValidateFilter checks history filter options.
func ValidateFilter(f model.HistoryFilter) error {
	return validateStruct(f)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	name := fe.StructField()
	if flag, ok := fieldFlags[name]; ok {
		name = flag
	} else {
		name = fe.Namespace()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must not be empty", name)
	case "gte":
		return fmt.Errorf("%s must be >= %s", name, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be <= %s", name, fe.Param())
	case "min":
		return fmt.Errorf("%s is too short (min %s)", name, fe.Param())
	default:
		return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
	}
}
