package datx

import "go.uber.org/zap"

// Option configures Read, Structure and NewDecoder.
type Option func(*options)

type options struct {
	logger *zap.Logger
	opener Opener
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
		opener: OpenHDF5,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report recovered conditions such as
// unreadable datasets.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOpener replaces the container implementation used to open files.
func WithOpener(open Opener) Option {
	return func(o *options) {
		if open != nil {
			o.opener = open
		}
	}
}
