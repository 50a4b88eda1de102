package util

import (
	"strings"
	"time"
)

// FormatDateTpl formats a timestamp in milliseconds since the Unix epoch
// using a placeholder template instead of Go's reference-date layout.
//
// Supported placeholders:
//   - YYYY: 4-digit year
//   - YY: 2-digit year
//   - MM: 2-digit month (01-12)
//   - DD: 2-digit day (01-31)
//   - hh: 2-digit hour (00-23)
//   - mm: 2-digit minute (00-59)
//   - ss: 2-digit second (00-59)
//
// Returns "" when ts == 0.
//
// Example:
//
//	FormatDateTpl(1699574400000, "YYYY.MM.DD")       // "2023.11.10"
//	FormatDateTpl(1699574400000, "YYYY-MM-DD hh:mm") // "2023-11-10 00:00"
func FormatDateTpl(ts int64, tpl string) string {
	if ts == 0 {
		return ""
	}

	replacer := strings.NewReplacer(
		"YYYY", "2006",
		"YY", "06",
		"MM", "01",
		"DD", "02",
		"hh", "15",
		"mm", "04",
		"ss", "05",
	)
	return time.UnixMilli(ts).UTC().Format(replacer.Replace(tpl))
}
