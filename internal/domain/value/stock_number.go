package value

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidStockNumber = errors.New("invalid stock number")

//nolint:gochecknoglobals
var stockNumberPattern = regexp.MustCompile(`^[A-Z0-9]+-[A-Z]{3}-[A-Z]{0,2}-\d{4,}$`)

// StockNumber is "{store}-{source}-{initials}-{sequence}".
type StockNumber string

func ParseStockNumber(s string) (StockNumber, error) {
	if !stockNumberPattern.MatchString(s) {
		return "", ErrInvalidStockNumber
	}

	return StockNumber(s), nil
}

func (n StockNumber) String() string {
	return string(n)
}

// SequenceAfter parses what follows prefix as the sequence. It reports false
// when n does not start with prefix or the remainder is not all digits.
func (n StockNumber) SequenceAfter(prefix string) (int, bool) {
	rest, found := strings.CutPrefix(string(n), prefix)
	if !found || rest == "" {
		return 0, false
	}

	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}

	return seq, true
}
