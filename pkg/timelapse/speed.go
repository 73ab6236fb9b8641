package timelapse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ChooseSpeed is the placeholder label shown before a speed is picked.
const ChooseSpeed = "Choose Speed"

// Speeds lists the multipliers offered to users, slowest first.
var Speeds = []int{2, 5, 10, 50, 100, 200, 300, 500, 1000}

var (
	// ErrSpeedNotChosen means no speed was selected yet. Front ends treat it
	// as "not ready" rather than as a user error.
	ErrSpeedNotChosen = errors.New("timelapse: speed not chosen")
	// ErrMalformedSpeed means the speed label could not be read as an integer >= 1.
	ErrMalformedSpeed = errors.New("timelapse: malformed speed")
)

// ParseSpeed reads a speed label such as "10x", "10X" or "10" and returns
// its multiplier. Any integer >= 1 is accepted, not only the values in Speeds.
func ParseSpeed(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, ChooseSpeed) {
		return 0, ErrSpeedNotChosen
	}

	digits := strings.TrimSuffix(strings.TrimSuffix(s, "x"), "X")
	if digits == "" || strings.IndexFunc(digits, notDigit) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSpeed, s)
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSpeed, s)
	}
	return n, nil
}

// FormatSpeed returns the label for multiplier n, e.g. "10x".
func FormatSpeed(n int) string {
	return strconv.Itoa(n) + "x"
}

// SpeedLabels returns the labels of Speeds.
func SpeedLabels() []string {
	labels := make([]string, len(Speeds))
	for i, n := range Speeds {
		labels[i] = FormatSpeed(n)
	}
	return labels
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
