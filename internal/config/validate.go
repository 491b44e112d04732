package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator
// instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d > 0
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks a loaded configuration against its field rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			ve := ves[0]
			return fmt.Errorf("invalid config: %s fails rule %q", tomlFieldName(ve), ve.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// tomlFieldName lowers a validator namespace like Config.Engine.FPS to
// the engine.fps form users see in the file.
func tomlFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
