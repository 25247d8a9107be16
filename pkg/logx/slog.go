package logx

import (
	"fmt"
	"log/slog"

	"github.com/lmittmann/tint"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

// Dump masks a raw HTTP dump and cuts it to maxLen bytes. Masking runs
// first so a cut never leaves half a secret behind. A non-positive maxLen
// keeps the whole dump.
func Dump(masker SensitiveDataMaskerInterface, dump []byte, maxLen int) string {
	dump = masker.Mask(dump)

	if maxLen > 0 && len(dump) > maxLen {
		dump = dump[:maxLen]
	}

	return string(dump)
}
