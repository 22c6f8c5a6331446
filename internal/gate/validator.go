// Package gate implements the validation ladder a script request has to pass
// before the file is released.
//
// Gates run in a fixed order and the first failure wins:
//
//	source address -> header present -> header syntax -> identifier -> hash
//
// Every failure is reported as a *Rejection carrying the status and the
// plaintext body the client receives. Bodies never include configured values.
package gate

import (
	"net"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// CountryResolver annotates rejected addresses in the log. Optional.
type CountryResolver interface {
	CountryCode(ip string) string
}

type Options struct {
	HeaderName   string
	AllowedIPs   []string
	AllowedIDs   []uint64
	RequiredHash string
	Countries    CountryResolver
	Logger       *log.Logger
}

type Validator struct {
	header       string
	addresses    AddressAllowlist
	ids          IDAllowlist
	requiredHash string
	countries    CountryResolver
	logger       *log.Logger
}

func NewValidator(opts Options) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Validator{
		header:       http.CanonicalHeaderKey(opts.HeaderName),
		addresses:    NewAddressAllowlist(opts.AllowedIPs),
		ids:          NewIDAllowlist(opts.AllowedIDs),
		requiredHash: opts.RequiredHash,
		countries:    opts.Countries,
		logger:       logger,
	}
}

// Check runs the gates against r. On success it returns the parsed
// credential; otherwise the error is a *Rejection for the earliest failing
// gate.
func (v *Validator) Check(r *http.Request) (Credential, error) {
	addr := RemoteIP(r)
	if !v.addresses.Contains(addr) {
		v.logAddress(addr)
		return Credential{}, rejectAddress(addr)
	}

	// Repeated fields are folded into one comma separated value, so a second
	// copy of the header makes the value malformed.
	raw := strings.Join(r.Header.Values(v.header), ", ")
	if raw == "" {
		v.logger.Warn("missing header", "header", v.header, "ip", addr)
		return Credential{}, rejectMissing()
	}

	cred, err := ParseHeader(raw)
	if err != nil {
		v.logger.Warn("invalid header", "value", raw, "ip", addr)
		return Credential{}, rejectFormat(raw, err)
	}

	if !v.ids.Allows(cred) {
		v.logger.Warn("forbidden id", "id", cred.IDText, "ip", addr)
		return Credential{}, rejectID(cred.IDText)
	}

	// Plain comparison: the required hash is not treated as a secret here.
	if cred.Hash != v.requiredHash {
		v.logger.Warn("invalid hash", "hash", cred.Hash, "id", cred.IDText, "ip", addr)
		return Credential{}, rejectHash(cred.Hash)
	}

	return cred, nil
}

func (v *Validator) logAddress(addr string) {
	if v.countries == nil {
		v.logger.Warn("forbidden ip", "ip", addr)
		return
	}
	v.logger.Warn("forbidden ip", "ip", addr, "country", v.countries.CountryCode(addr))
}

// RemoteIP returns the host part of the connection's remote address as the
// transport reports it. Forwarding headers are not consulted.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
