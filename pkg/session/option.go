package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"pdf-toolbox-bot/pkg/pagespec"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var ErrInvalidOption = errors.New("invalid option")

var compressionLevels = map[string]string{
	"1": "low", "low": "low",
	"2": "medium", "medium": "medium",
	"3": "high", "high": "high",
}

// ParseOption validates raw user text for kind and returns its normalized form.
func ParseOption(kind OptionKind, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch kind {
	case OptionCompressionLevel:
		if level, ok := compressionLevels[strings.ToLower(value)]; ok {
			return level, nil
		}
		return "", fmt.Errorf("%w: compression level must be 1, 2 or 3", ErrInvalidOption)
	case OptionAngle:
		value = strings.TrimSuffix(value, "°")
		switch value {
		case "90", "180", "270":
			return value, nil
		}
		return "", fmt.Errorf("%w: angle must be 90, 180 or 270", ErrInvalidOption)
	case OptionPageSpec:
		if err := pagespec.Validate(value); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		return strings.ToLower(value), nil
	case OptionSplitMode:
		if err := pagespec.ValidateSplit(value); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		return strings.ToLower(value), nil
	case OptionPassword:
		n := utf8.RuneCountInString(value)
		if n == 0 || n > MaxPasswordLength {
			return "", fmt.Errorf("%w: password must be 1-%d characters", ErrInvalidOption, MaxPasswordLength)
		}
		return value, nil
	case OptionNewPassword:
		n := utf8.RuneCountInString(value)
		if n < MinPasswordLength || n > MaxPasswordLength {
			return "", fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidOption, MinPasswordLength, MaxPasswordLength)
		}
		return value, nil
	}
	return "", fmt.Errorf("%w: feature takes no option", ErrInvalidOption)
}
