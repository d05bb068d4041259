// Package invite renders iCalendar files for accepted court bookings.
package invite

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	_ "embed"
)

//go:embed template.ics
var template string

const stampLayout = "20060102T150405Z"

// Generate renders a single-event iCalendar file spanning [start, end).
// The event uid is derived from the timestamps, so regenerating the invite
// for the same period updates the event instead of duplicating it.
func Generate(start, end time.Time) []byte {
	startStamp := start.UTC().Format(stampLayout)
	endStamp := end.UTC().Format(stampLayout)

	sum := md5.Sum([]byte(startStamp + "-" + endStamp))
	uid := hex.EncodeToString(sum[:])

	body := template
	body = strings.ReplaceAll(body, "{{start}}", startStamp)
	body = strings.ReplaceAll(body, "{{end}}", endStamp)
	body = strings.ReplaceAll(body, "{{id}}", uid)
	return []byte(body)
}
