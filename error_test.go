package stagez

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestError(t *testing.T) {
	t.Run("Message Contains Stage And Cause", func(t *testing.T) {
		err := NewIOError("store", errors.New("disk full"))
		msg := err.Error()
		if !strings.Contains(msg, `stage "store"`) {
			t.Errorf("expected stage name in message, got %q", msg)
		}
		if !strings.Contains(msg, "io failure: disk full") {
			t.Errorf("expected kind and cause in message, got %q", msg)
		}
	})

	t.Run("Network Without Cause", func(t *testing.T) {
		err := NewNetworkError("fetch", nil)
		if !strings.Contains(err.Error(), "network failure") {
			t.Errorf("unexpected message %q", err.Error())
		}
		if err.Unwrap() != nil {
			t.Error("expected nil cause")
		}
	})

	t.Run("Timeout Message", func(t *testing.T) {
		err := NewOtherError("slow", context.DeadlineExceeded)
		if !err.Timeout || !err.IsTimeout() {
			t.Error("expected timeout flag")
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("expected timeout message, got %q", err.Error())
		}
	})

	t.Run("Canceled Message", func(t *testing.T) {
		err := NewOtherError("gone", context.Canceled)
		if !err.Canceled || !err.IsCanceled() {
			t.Error("expected canceled flag")
		}
		if !strings.Contains(err.Error(), "canceled") {
			t.Errorf("expected canceled message, got %q", err.Error())
		}
	})

	t.Run("Is Matches Kind Sentinels", func(t *testing.T) {
		err := NewIOError("store", errors.New("x"))
		if !errors.Is(err, ErrIO) {
			t.Error("expected errors.Is(err, ErrIO)")
		}
		if errors.Is(err, ErrNetwork) || errors.Is(err, ErrOther) {
			t.Error("io error matched wrong sentinel")
		}

		wrapped := fmt.Errorf("run: %w", err)
		if !errors.Is(wrapped, ErrIO) {
			t.Error("expected sentinel match through wrapping")
		}
	})

	t.Run("Unwrap Reaches Cause", func(t *testing.T) {
		cause := &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}
		err := NewIOError("store", cause)
		if !errors.Is(err, fs.ErrPermission) {
			t.Error("expected cause to be reachable")
		}
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) || pathErr != cause {
			t.Error("expected errors.As to find the path error")
		}
	})

	t.Run("Kind String", func(t *testing.T) {
		cases := map[Kind]string{KindNetwork: "network", KindIO: "io", KindOther: "other"}
		for kind, want := range cases {
			if kind.String() != want {
				t.Errorf("expected %q, got %q", want, kind.String())
			}
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want Kind
	}{
		{name: "url error opaque cause", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("unsupported protocol scheme")}, want: KindOther},
		{name: "url parse error", err: &url.Error{Op: "parse", URL: "http://[::1", Err: errors.New("missing ']' in host")}, want: KindOther},
		{name: "url wrapping op error", err: &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}}, want: KindNetwork},
		{name: "url wrapping dns error", err: &url.Error{Op: "Get", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}, want: KindNetwork},
		{name: "op error", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, want: KindNetwork},
		{name: "dns error", err: &net.DNSError{Err: "no such host", Name: "x"}, want: KindNetwork},
		{name: "connection refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: KindNetwork},
		{name: "path error", err: &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, want: KindIO},
		{name: "link error", err: &os.LinkError{Op: "rename", Old: "a", New: "b", Err: fs.ErrExist}, want: KindIO},
		{name: "not exist", err: fs.ErrNotExist, want: KindIO},
		{name: "unexpected eof", err: io.ErrUnexpectedEOF, want: KindIO},
		{name: "deadline", err: context.DeadlineExceeded, want: KindOther},
		{name: "plain", err: errors.New("nope"), want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("leaf", tt.err)
			if got.Kind != tt.want {
				t.Errorf("expected kind %s, got %s", tt.want, got.Kind)
			}
			if got.Stage != "leaf" {
				t.Errorf("expected stage 'leaf', got %q", got.Stage)
			}
			if !errors.Is(got, tt.err) && got.Err != tt.err { //nolint:errorlint // identity check
				t.Errorf("expected cause to be preserved")
			}
		})
	}

	t.Run("Nil", func(t *testing.T) {
		if Classify("leaf", nil) != nil {
			t.Error("expected nil for nil error")
		}
	})

	t.Run("Existing Error Returned As Is", func(t *testing.T) {
		original := NewNetworkError("fetch", nil)
		if got := Classify("other", original); got != original {
			t.Error("expected the same *Error value")
		}
		if got := Classify("other", fmt.Errorf("wrapped: %w", original)); got != original {
			t.Error("expected the wrapped *Error value")
		}
		if original.Stage != "fetch" {
			t.Errorf("stage must not change, got %q", original.Stage)
		}
	})

	t.Run("Timestamp Set", func(t *testing.T) {
		before := time.Now()
		got := Classify("leaf", errors.New("x"))
		if got.Timestamp.Before(before) {
			t.Error("expected timestamp to be set")
		}
	})
}
