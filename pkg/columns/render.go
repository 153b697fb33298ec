package columns

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/carverauto/flowlogs/pkg/models"
)

// Placeholder is shown in place of a value that cannot be displayed.
const Placeholder = "—"

// ErrInvalidTimestamp is reported for zero or otherwise unusable timestamps.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ValidInstant reports whether t is a usable point in time. Decoders leave
// unparseable timestamps as the zero time.
func ValidInstant(t time.Time) bool {
	return !t.IsZero()
}

// FormatTimeOfDay renders the time-of-day part of t in loc using layout.
func FormatTimeOfDay(t time.Time, loc *time.Location, layout string) (string, error) {
	if !ValidInstant(t) {
		return "", ErrInvalidTimestamp
	}

	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format(layout), nil
}

func (b *Builder) timeOfDay(id string, get func(*models.FlowLog) time.Time) CellRenderer {
	return func(r *models.FlowLog) string {
		s, err := FormatTimeOfDay(get(r), b.location, b.layout)
		if err != nil {
			b.logger.Warn().Err(err).Str("column", id).Msg("Cannot render flow log timestamp")

			return Placeholder
		}

		return s
	}
}

func (b *Builder) action(r *models.FlowLog) string {
	if r == nil {
		return Placeholder
	}

	return b.actions.RenderAction(r.Action)
}

// DefaultProjection renders the FlowLog field named id as plain text. It is
// what hosts show for columns without a renderer.
func DefaultProjection(id string, r *models.FlowLog) string {
	v, ok := r.Field(id)
	if !ok {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case models.Action:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		if !ValidInstant(val) {
			return Placeholder
		}

		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
