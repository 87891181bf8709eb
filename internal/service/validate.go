package service

import (
	"regexp"
	"unicode/utf8"
)

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// lenBetween reports whether s holds between min and max runes inclusive.
func lenBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// digitsBetween reports whether s is all digits with a length in range.
func digitsBetween(s string, min, max int) bool {
	return lenBetween(s, min, max) && digitsRe.MatchString(s)
}
