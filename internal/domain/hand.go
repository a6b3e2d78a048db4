package domain

import "strings"

// Hand - жест в игре
type Hand string

const (
	HandRock     Hand = "rock"
	HandScissors Hand = "scissors"
	HandPaper    Hand = "paper"
)

// ParseHand parses free-form hand text. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return HandRock, nil
	case "scissors":
		return HandScissors, nil
	case "paper":
		return HandPaper, nil
	}
	return "", ErrInvalidHand
}

func (h Hand) String() string {
	return string(h)
}
