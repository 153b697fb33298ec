package columns

import (
	"cmp"
	"strings"
	"time"

	"github.com/carverauto/flowlogs/pkg/models"
)

// InstantComparator compares the timestamps selected by get as milliseconds
// since the Unix epoch: the result is instant(a) - instant(b). Records with an
// invalid timestamp sort after every valid one and tie with each other, which
// keeps the order total.
func InstantComparator(get func(*models.FlowLog) time.Time) Comparator {
	return func(a, b *models.FlowLog) int64 {
		return compareInstants(get(a), get(b))
	}
}

func compareInstants(ta, tb time.Time) int64 {
	va, vb := ValidInstant(ta), ValidInstant(tb)

	switch {
	case !va && !vb:
		return 0
	case !va:
		return 1
	case !vb:
		return -1
	}

	return ta.UnixMilli() - tb.UnixMilli()
}

// DefaultComparator orders records by the raw value of field id. Strings
// compare lexically, numbers numerically, and timestamps as instants.
// Unknown fields compare equal.
func DefaultComparator(id string) Comparator {
	return func(a, b *models.FlowLog) int64 {
		va, okA := a.Field(id)
		vb, okB := b.Field(id)

		if !okA || !okB {
			return 0
		}

		switch x := va.(type) {
		case string:
			y, _ := vb.(string)
			return int64(strings.Compare(x, y))
		case models.Action:
			y, _ := vb.(models.Action)
			return int64(strings.Compare(string(x), string(y)))
		case int64:
			y, _ := vb.(int64)
			return int64(cmp.Compare(x, y))
		case time.Time:
			y, _ := vb.(time.Time)
			return compareInstants(x, y)
		default:
			return 0
		}
	}
}

// Sign folds a comparator result into -1, 0 or 1 for sort functions that take
// an int.
func Sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
