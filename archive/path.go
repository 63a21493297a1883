package archive

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/zoobzio/stagez"
)

// ErrNoHost is the cause recorded when a URL has no host to file it under.
var ErrNoHost = errors.New("url has no host")

// URLPath derives the relative storage path of a URL: scheme, host, then
// the URL path. Directory-like paths (empty or ending in "/") get
// index.html appended.
//
//	https://example.com/         -> https/example.com/index.html
//	https://example.com/a/b.html -> https/example.com/a/b.html
//
// Dot segments are left in place; Store resolves them without escaping its
// base directory.
func URLPath() stagez.Processor[url.URL, string] {
	return stagez.Apply(URLPathName, func(_ context.Context, target url.URL) (string, error) {
		host := target.Hostname()
		if host == "" {
			return "", stagez.NewOtherError(URLPathName, ErrNoHost)
		}

		rel := strings.TrimPrefix(target.Path, "/")
		if rel == "" || strings.HasSuffix(rel, "/") {
			rel += "index.html"
		}

		return target.Scheme + "/" + host + "/" + rel, nil
	})
}
