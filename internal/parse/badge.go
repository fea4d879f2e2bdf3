package parse

import (
	"errors"
	"strings"
)

// ErrEmptyBadge is returned when a scan arrives without a usable badge id.
var ErrEmptyBadge = errors.New("badge id is empty")

// NormalizeBadge canonicalizes a raw RFID badge id as read off the wire:
// surrounding whitespace is stripped and hex-style ids are uppercased so
// that "card-001" and "CARD-001" address the same staff row.
func NormalizeBadge(raw string) (string, error) {
	uid := strings.ToUpper(strings.TrimSpace(raw))
	if uid == "" {
		return "", ErrEmptyBadge
	}
	return uid, nil
}
