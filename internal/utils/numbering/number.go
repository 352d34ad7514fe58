package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind selects the prefix family of a number.
type Kind string

const (
	// Invoice numbers are given to finalized sales.
	Invoice Kind = "INV"
	// Draft numbers are given to empty carts.
	Draft Kind = "TX"
)

const (
	dateLayout  = "20060102"
	suffixWidth = 4
)

// Prefix returns the day-scoped prefix for kind, e.g. INV-20250615. The date
// is taken in loc so that the day boundary follows the store's calendar.
func Prefix(kind Kind, at time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return string(kind) + "-" + at.In(loc).Format(dateLayout)
}

// Format joins a prefix and a sequence value into a full number. The suffix
// is zero-padded to four digits and widens past 9999 instead of wrapping.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, suffixWidth, seq)
}

// Parse splits a full number into its prefix and sequence value.
func Parse(number string) (string, int64, error) {
	idx := strings.LastIndex(number, "-")
	if idx <= 0 || idx == len(number)-1 {
		return "", 0, fmt.Errorf("invalid number %q", number)
	}
	prefix, suffix := number[:idx], number[idx+1:]
	if len(suffix) < suffixWidth {
		return "", 0, fmt.Errorf("invalid number %q: suffix shorter than %d digits", number, suffixWidth)
	}
	seq, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || seq <= 0 {
		return "", 0, fmt.Errorf("invalid number %q: bad sequence", number)
	}
	if err := ValidatePrefix(prefix); err != nil {
		return "", 0, err
	}
	return prefix, seq, nil
}

// ValidatePrefix checks that prefix has the KIND-YYYYMMDD shape.
func ValidatePrefix(prefix string) error {
	kind, date, ok := strings.Cut(prefix, "-")
	if !ok {
		return fmt.Errorf("invalid prefix %q", prefix)
	}
	if Kind(kind) != Invoice && Kind(kind) != Draft {
		return fmt.Errorf("invalid prefix %q: unknown kind", prefix)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid prefix %q: bad date", prefix)
	}
	return nil
}
