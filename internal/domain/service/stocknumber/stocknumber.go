// Package stocknumber derives the stock numbers assigned to acquired vehicles.
//
// A stock number has the form "{store}-{source}-{initials}-{sequence}". The
// sequence is scoped to the prefix made of the first three segments, starts at
// 0001 and is zero-padded to four digits. Past 9999 the field simply widens.
//
// Allocate is a pure function of the submission and the history it is given.
// Two callers holding the same history snapshot will mint the same number, so
// allocation and the write of its result must run in one critical section
// owned by the caller.
package stocknumber

import (
	"fmt"
	"strings"
	"unicode"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
)

const (
	SourceTradeIn      = "TRD"
	SourceAuction      = "AUC"
	SourcePrivateParty = "PRV"
	SourceWholesale    = "WHL"
	SourceOther        = "OTH"

	// UnknownInitials stands in for a missing buyer name.
	UnknownInitials = "XX"

	maxInitials = 2
)

//nolint:gochecknoglobals
var sourceCodes = map[value.Channel]string{
	value.ChannelTradeIn:      SourceTradeIn,
	value.ChannelAuction:      SourceAuction,
	value.ChannelPrivateParty: SourcePrivateParty,
	value.ChannelWholesale:    SourceWholesale,
}

// SourceCode maps an acquisition channel to its three letter code. Channels
// without a code of their own (service drive included) map to OTH.
func SourceCode(channel value.Channel) string {
	if code, ok := sourceCodes[value.ParseChannel(channel.String())]; ok {
		return code
	}

	return SourceOther
}

// BuyerInitials takes the first letter of each word of the name, upper-cased,
// and keeps at most two. Words whose first letter is outside A-Z are skipped.
// A one-word name yields a single letter, and a name with no usable letter
// yields UnknownInitials.
func BuyerInitials(name string) string {
	initials := make([]byte, 0, maxInitials)

	for _, w := range strings.Fields(name) {
		if len(initials) == maxInitials {
			break
		}

		if c, ok := firstLetter(w); ok {
			initials = append(initials, c)
		}
	}

	if len(initials) == 0 {
		return UnknownInitials
	}

	return string(initials)
}

func firstLetter(word string) (byte, bool) {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}

		r = unicode.ToUpper(r)
		if r < 'A' || r > 'Z' {
			return 0, false
		}

		return byte(r), true
	}

	return 0, false
}

// Prefix returns "{store}-{source}-{initials}-", trailing hyphen included, so
// that "ST1-TRD-J-" never matches numbers under "ST1-TRD-JS-".
func Prefix(storeCode string, channel value.Channel, buyerName string) string {
	return fmt.Sprintf("%s-%s-%s-", storeCode, SourceCode(channel), BuyerInitials(buyerName))
}

// LastSequence returns the highest sequence used under prefix, or 0.
// Entries whose remainder after the prefix is not numeric are ignored.
func LastSequence(prefix string, history []value.StockNumber) int {
	last := 0

	for _, n := range history {
		seq, ok := n.SequenceAfter(prefix)
		if !ok {
			continue
		}

		last = max(last, seq)
	}

	return last
}

// Format joins a prefix and a sequence.
func Format(prefix string, sequence int) value.StockNumber {
	return value.StockNumber(fmt.Sprintf("%s%04d", prefix, sequence))
}

// Allocate assigns the next stock number for the acquisition given every
// stock number already committed under any prefix.
func Allocate(acquisition entity.Acquisition, history []value.StockNumber) value.StockNumber {
	prefix := Prefix(acquisition.StoreCode, acquisition.Channel, acquisition.BuyerName)

	return Format(prefix, LastSequence(prefix, history)+1)
}
