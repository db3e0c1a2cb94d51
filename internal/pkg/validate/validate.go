// Package validate exposes a single shared validator.Validate instance,
// used to check assembled App/config values and inbound wire payloads.
package validate

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// usernamePattern backs the "username" validator rule: 3-14 word
// characters (spec.md §4.2).
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,14}$`)

// Validate returns the package-level validator singleton. Besides the
// struct tags validator.Validate understands out of the box, it carries
// one custom rule, "username", used by wire.Enter.
func Validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		_ = instance.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
	return instance
}
