package archive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zoobzio/stagez"
)

// Log returns a pass-through stage that writes every value it sees to logger
// at debug level. It never fails.
func Log[T any](logger zerolog.Logger, name stagez.Name) stagez.Processor[T, T] {
	return stagez.Effect(name, func(_ context.Context, value T) error {
		event := logger.Debug().Str("stage", name)
		switch v := any(value).(type) {
		case string:
			event = event.Str("value", v)
		case fmt.Stringer:
			event = event.Stringer("value", v)
		default:
			event = event.Interface("value", v)
		}
		event.Msg("stage value")
		return nil
	})
}
