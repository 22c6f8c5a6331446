package gate

import (
	"regexp"
	"strconv"
)

var credentialPattern = regexp.MustCompile(`^DRM-([0-9]+)-([a-f0-9]+)$`)

// Credential is the parsed form of a DRM header value.
type Credential struct {
	// ID is only meaningful when IDValid is set; digit runs too large for a
	// uint64 still parse but can never be allowlisted.
	ID      uint64
	IDValid bool
	IDText  string
	Hash    string
}

// ParseHeader parses a raw header value of the form DRM-<digits>-<hex>.
func ParseHeader(raw string) (Credential, error) {
	match := credentialPattern.FindStringSubmatch(raw)
	if match == nil {
		return Credential{}, ErrInvalidFormat
	}

	cred := Credential{IDText: match[1], Hash: match[2]}
	if id, err := strconv.ParseUint(match[1], 10, 64); err == nil {
		cred.ID = id
		cred.IDValid = true
	}
	return cred, nil
}
