package value

// RedFlag is the risk classification attached to an acquisition.
type RedFlag string

const (
	RedFlagNone      RedFlag = "None"
	RedFlagLowGross  RedFlag = "Low Gross"
	RedFlagHighRecon RedFlag = "High Recon"
)

func (f RedFlag) String() string {
	return string(f)
}

// Raised reports whether the classification needs a reviewer.
func (f RedFlag) Raised() bool {
	return f != "" && f != RedFlagNone
}
