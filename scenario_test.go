package stagez_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/stagez"
	stagetest "github.com/zoobzio/stagez/testing"
)

func TestScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("Constant Then Identity", func(t *testing.T) {
		pipeline := stagez.NewThen("seed", stagez.Constant("five", 5), stagez.Identity[int]("id"))
		defer pipeline.Close()

		out, err := pipeline.Process(ctx, stagez.Unit{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != 5 {
			t.Errorf("expected 5, got %d", out)
		}
	})

	t.Run("Zip Double And Negate", func(t *testing.T) {
		double := stagetest.NewMockStage[int, int](t, "double").WithFunc(func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})
		negate := stagetest.NewMockStage[int, int](t, "negate").WithFunc(func(_ context.Context, n int) (int, error) {
			return -n, nil
		})

		pipeline := stagez.NewZip("zip", stagez.Constant("x", 3), double, negate)
		defer pipeline.Close()

		pair, err := pipeline.Process(ctx, stagez.Unit{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.First != 6 || pair.Second != -3 {
			t.Errorf("expected (6, -3), got (%d, %d)", pair.First, pair.Second)
		}
		stagetest.AssertProcessedWith(t, double, 3)
		stagetest.AssertProcessedWith(t, negate, 3)
	})

	t.Run("Guarded Uppercase", func(t *testing.T) {
		upper := stagez.Transform("upper", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})

		for _, tc := range []struct {
			want  string
			guard bool
		}{
			{guard: true, want: "A"},
			{guard: false, want: "a"},
		} {
			chain := stagez.NewChain("text", stagez.Constant("a", "a")).If(tc.guard, upper)

			out, err := chain.Process(ctx, stagez.Unit{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.want {
				t.Errorf("guard %t: expected %q, got %q", tc.guard, tc.want, out)
			}
			chain.Close()
		}
	})

	t.Run("IO Failure Propagates Exactly", func(t *testing.T) {
		ioErr := stagez.NewIOError("read", errors.New("device not ready"))
		read := stagetest.NewMockStage[stagez.Unit, string](t, "read").WithReturn("", ioErr)
		write := stagetest.NewMockStage[string, stagez.Unit](t, "write")

		pipeline := stagez.NewThen("copy", read, write)
		defer pipeline.Close()

		_, err := pipeline.Process(ctx, stagez.Unit{})
		if err != ioErr { //nolint:errorlint // exact value is forwarded
			t.Errorf("expected the exact io error, got %v", err)
		}
		if !errors.Is(err, stagez.ErrIO) {
			t.Error("expected io kind")
		}
		stagetest.AssertKind(t, err, stagez.KindIO)
		stagetest.AssertProcessed(t, read, 1)
		stagetest.AssertNotProcessed(t, write)
	})
}
