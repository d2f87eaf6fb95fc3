package domain

import (
	"fmt"
	"time"
)

// timestampLayouts lists the date forms remote endpoints emit: ISO-8601
// with Z offset and two space-separated offset variants, e.g.
// "2008/02/28 10:41:03 -0800".
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006/01/02 15:04:05 -0700",
}

// ParseTimestamp parses a remote date string in either ISO-8601 form
// or the space-separated offset form and returns it as epoch seconds.
func ParseTimestamp(s string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognised timestamp %q", s)
}
