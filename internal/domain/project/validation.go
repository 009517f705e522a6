package project

import (
	"fmt"
	"regexp"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func validate(name, color string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !hexColor.MatchString(color) {
		return fmt.Errorf("%w: color must be #RRGGBB, got %q", ErrInvalidInput, color)
	}
	return nil
}
