// package validate
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field creates a labeled validator with a custom name for better error messages
func Field(name string, validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				// Rewrite error to include field name if not already present
				if !strings.Contains(err.Error(), name) {
					return fmt.Errorf("%s: %w", name, err)
				}
				return err
			}
		}
		return nil
	}
}

// Compose chains multiple validators; first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MinLength checks minimum length in runes
func MinLength(min int) Validator {
	return func(v string) error {
		if utf8.RuneCountInString(v) < min {
			return fmt.Errorf("must be at least %d characters", min)
		}
		return nil
	}
}

// MaxLength checks maximum length in runes
func MaxLength(max int) Validator {
	return func(v string) error {
		if utf8.RuneCountInString(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// LengthBetween checks length between min and max (inclusive)
func LengthBetween(min, max int) Validator {
	return Compose(MinLength(min), MaxLength(max))
}

// Matches checks if value matches a regex, with a custom message
func Matches(pattern, message string) Validator {
	re := regexp.MustCompile(pattern)
	return func(v string) error {
		if !re.MatchString(v) {
			if message != "" {
				return fmt.Errorf("%s", message)
			}
			return fmt.Errorf("invalid format")
		}
		return nil
	}
}

// OneOf checks if value is in allowed list
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool)
	for _, a := range allowed {
		set[a] = true
	}
	return func(v string) error {
		if !set[v] {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// NoSpaces disallows spaces
func NoSpaces() Validator {
	return Matches(`^\S+$`, "must not contain spaces")
}

// UppercaseAlphanumeric matches room code shape
func UppercaseAlphanumeric() Validator {
	return Matches(`^[A-Z0-9]+$`, "must contain only uppercase letters and numbers")
}
