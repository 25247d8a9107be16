package tests

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// vinAlphabet leaves out I, O and Q like real VINs do.
const vinAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

const vinLen = 17

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}

// Amount returns a dollar amount in [0, upTo) with cents.
func (r Randomizer) Amount(upTo int64) decimal.Decimal {
	return decimal.NewFromFloat(r.Float64() * float64(upTo)).Round(2)
}

func (r Randomizer) VIN() string {
	b := make([]byte, vinLen)

	for i := range b {
		b[i] = vinAlphabet[r.Intn(len(vinAlphabet))]
	}

	return string(b)
}
