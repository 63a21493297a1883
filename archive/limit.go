package archive

import (
	"context"
	"io"

	"github.com/zoobzio/stagez"
)

// Limit caps a stream at n bytes. Closing the limited stream closes the
// original one.
func Limit(n int64) stagez.Processor[io.ReadCloser, io.ReadCloser] {
	return stagez.Transform(LimitName, func(_ context.Context, r io.ReadCloser) io.ReadCloser {
		return limitedReadCloser{Reader: io.LimitReader(r, n), Closer: r}
	})
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}
