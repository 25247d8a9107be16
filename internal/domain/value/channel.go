package value

import "strings"

// Channel is the acquisition source of a vehicle.
type Channel string

const (
	ChannelTradeIn      Channel = "trade-in"
	ChannelAuction      Channel = "auction"
	ChannelPrivateParty Channel = "private-party"
	ChannelWholesale    Channel = "wholesale"
	ChannelServiceDrive Channel = "service-drive"
	ChannelOther        Channel = "other"
)

// ParseChannel normalizes the free-form channel labels used by the intake
// forms ("Trade-In", "trade_in", "Private Party") to their canonical form.
// Unknown labels are kept as normalized text, they are never rejected.
func ParseChannel(s string) Channel {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "-")

	return Channel(s)
}

func (c Channel) String() string {
	return string(c)
}
