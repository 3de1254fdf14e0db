package main

import "strings"

// canonicalKey normalizes a UID string from config or operator input to
// the form encodeUID produces.
func canonicalKey(uid string) string {
	return strings.ToUpper(strings.TrimSpace(uid))
}
