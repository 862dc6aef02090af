package datx

import (
	"fmt"

	"go.uber.org/zap"
)

// Read opens the container at path, decodes it and closes it again before
// returning. It fails with ErrFileAccess when the file cannot be opened and
// ErrFormat when its content is not a valid container.
//
// Example:
//
//	root, err := datx.Read("sample.datx")
//	if err != nil {
//	    return err
//	}
//	surface, err := datx.Lookup(root, "/Measurement/Surface")
func Read(path string, opts ...Option) (g Group, err error) {
	o := newOptions(opts)
	root, err := o.opener(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := root.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	o.logger.Debug("decoding container", zap.String("file", path))
	d := &Decoder{log: o.logger}
	g, err = d.decodeContainer(root, "/")
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}
