package stagez_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zoobzio/stagez"
)

func ExampleNewThen() {
	parse := stagez.Apply("parse", func(_ context.Context, s string) (int, error) {
		var n int
		_, err := fmt.Sscanf(s, "%d", &n)
		return n, err
	})
	double := stagez.Transform("double", func(_ context.Context, n int) int { return n * 2 })

	pipeline := stagez.NewThen("parse-double", parse, double)
	defer pipeline.Close()

	n, err := pipeline.Process(context.Background(), "21")
	fmt.Println(n, err)
	// Output: 42 <nil>
}

func ExampleNewZip() {
	double := stagez.Transform("double", func(_ context.Context, n int) int { return n * 2 })
	negate := stagez.Transform("negate", func(_ context.Context, n int) int { return -n })

	zip := stagez.NewZip("both", stagez.Constant("three", 3), double, negate)
	defer zip.Close()

	pair, _ := zip.Process(context.Background(), stagez.Unit{})
	fmt.Println(pair.First, pair.Second)
	// Output: 6 -3
}

func ExampleChain_If() {
	shout := true
	upper := stagez.Transform("upper", func(_ context.Context, s string) string { return strings.ToUpper(s) })
	exclaim := stagez.Transform("exclaim", func(_ context.Context, s string) string { return s + "!" })

	chain := stagez.NewChain("greeting", stagez.Constant("hello", "hello")).
		If(shout, upper).
		If(!shout, exclaim)
	defer chain.Close()

	out, _ := chain.Process(context.Background(), stagez.Unit{})
	fmt.Println(out, chain.Names())
	// Output: HELLO [hello upper]
}

func ExampleError() {
	read := stagez.Apply("read", func(_ context.Context, path string) ([]byte, error) {
		return nil, stagez.NewIOError("read", errors.New("device not ready"))
	})

	_, err := read.Process(context.Background(), "/dev/tape0")
	var stageErr *stagez.Error
	if errors.As(err, &stageErr) {
		fmt.Println(stageErr.Stage, stageErr.Kind, errors.Is(err, stagez.ErrIO))
	}
	// Output: read io true
}
