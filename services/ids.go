package services

import (
	"strconv"
	"time"
)

// timeBasedID builds millisecond-timestamp ids ("1712345678901",
// "ORD-1712345678901", "user-1712345678901"). The counter bumps past any id
// already taken so back-to-back creations in the same millisecond stay
// unique.
func timeBasedID(prefix string, taken func(string) bool) string {
	ms := time.Now().UnixMilli()
	for {
		id := prefix + strconv.FormatInt(ms, 10)
		if !taken(id) {
			return id
		}
		ms++
	}
}
