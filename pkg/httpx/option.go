package httpx

type Option func(*LoggingRoundTripper)

// WithLogFieldMaxLen limits the logged size of each dump. Zero logs
// everything.
func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

// WithSensitiveDataMasker replaces the default masker.
func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithPeer names the remote side in every log line, e.g. "telegram".
func WithPeer(peer string) Option {
	return func(rt *LoggingRoundTripper) {
		rt.peer = peer
	}
}
