package utils

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	BookingRefPrefix = "ZM"
	refSuffixLen     = 5
	base36           = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewBookingRef builds a human-readable booking reference: prefix, base-36
// creation time in milliseconds and a short random suffix, upper-cased.
func NewBookingRef(now time.Time) string {
	var b strings.Builder
	b.WriteString(BookingRefPrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for i := 0; i < refSuffixLen; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return strings.ToUpper(b.String())
}
