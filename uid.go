package main

import (
	"encoding/hex"
	"errors"
	"strings"
)

// MIFARE UIDs are 4, 7 or 10 bytes; 10 is the protocol maximum.
const maxUIDLen = 10

var errInvalidUID = errors.New("uid: length must be between 1 and 10 bytes")

// encodeUID converts raw tag identifier bytes to the canonical form used
// for registry lookups, duplicate suppression and the wire payload: an
// uppercase hex string, two digits per byte.
func encodeUID(uid []byte) (string, error) {
	if len(uid) == 0 || len(uid) > maxUIDLen {
		return "", errInvalidUID
	}
	return strings.ToUpper(hex.EncodeToString(uid)), nil
}
