package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atikulmunna/loglens/internal/aggregator"
)

// EscapeKey returns key unchanged when it is valid UTF-8 and does not start
// with a double quote. Any other key is Go-quoted, so distinct raw keys stay
// distinct and every renderer sees the same printable text.
func EscapeKey(key string) string {
	if utf8.ValidString(key) && !strings.HasPrefix(key, `"`) {
		return key
	}
	return strconv.Quote(key)
}

func escapeEntries(entries []aggregator.Entry) []aggregator.Entry {
	for i := range entries {
		entries[i].Key = EscapeKey(entries[i].Key)
	}
	return entries
}
