package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/zoobzio/stagez"
)

// Stage names used by this package.
const (
	FetchName   stagez.Name = "fetch"
	BodyName    stagez.Name = "body"
	URLPathName stagez.Name = "url-path"
	LimitName   stagez.Name = "limit"
	StoreName   stagez.Name = "store"
)

// StatusError is the cause recorded when a server answers with a non-2xx
// status. It is reported as a stagez.KindOther failure.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Fetch issues a GET for the target URL with client. Transport failures are
// reported as network failures; a non-2xx answer is reported as an other
// failure wrapping *StatusError, with the response body already closed.
//
// The returned response's body is open; hand it on with Body.
func Fetch(client *http.Client, userAgent string) stagez.Processor[url.URL, *http.Response] {
	return stagez.Apply(FetchName, func(ctx context.Context, target url.URL) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
		if err != nil {
			return nil, stagez.NewOtherError(FetchName, err)
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck
			resp.Body.Close()
			return nil, &StatusError{URL: target.String(), Code: resp.StatusCode}
		}
		return resp, nil
	})
}

// Body turns a response into its body stream. The caller owns the stream.
func Body() stagez.Processor[*http.Response, io.ReadCloser] {
	return stagez.Transform(BodyName, func(_ context.Context, resp *http.Response) io.ReadCloser {
		return resp.Body
	})
}
