package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxFrameSize  = 16 * 1024 // WebSocket command frame
	MaxStrokeSize = 1024      // One paint stroke
)

// String length limits
const (
	MaxIDLength  = 64
	MaxURLLength = 2048
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an app identifier
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateStroke validates one paint stroke command
func ValidateStroke(stroke string) error {
	if err := ValidateString(stroke, "stroke", 1, MaxStrokeSize, true); err != nil {
		return err
	}
	if len(stroke) > MaxStrokeSize {
		return fmt.Errorf("stroke exceeds %d bytes", MaxStrokeSize)
	}
	return nil
}

// ValidateURL validates a video URL or bare video id
func ValidateURL(url string) error {
	return ValidateString(strings.TrimSpace(url), "url", 1, MaxURLLength, true)
}

// ValidateFrame rejects WebSocket frames over MaxFrameSize
func ValidateFrame(data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame size %d exceeds maximum %d bytes", len(data), MaxFrameSize)
	}
	return nil
}
