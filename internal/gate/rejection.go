package gate

import (
	"errors"
	"net/http"
)

// Kind names the gate a request failed at.
type Kind string

const (
	KindAddress Kind = "ip"
	KindMissing Kind = "missing_header"
	KindFormat  Kind = "header_format"
	KindID      Kind = "id"
	KindHash    Kind = "hash"
)

var (
	ErrMissingHeader = errors.New("missing header")
	ErrInvalidFormat = errors.New("invalid header format")
)

// Rejection is returned by Validator.Check for the first gate a request fails.
// Body is safe to send to the client as-is.
type Rejection struct {
	Kind   Kind
	Status int
	Body   string
	Value  string
	err    error
}

func (r *Rejection) Error() string {
	return r.Body
}

func (r *Rejection) Unwrap() error {
	return r.err
}

func rejectAddress(addr string) *Rejection {
	return &Rejection{Kind: KindAddress, Status: http.StatusForbidden, Body: "Forbidden: invalid IP", Value: addr}
}

func rejectMissing() *Rejection {
	return &Rejection{Kind: KindMissing, Status: http.StatusBadRequest, Body: "Bad Request: missing header", err: ErrMissingHeader}
}

func rejectFormat(raw string, err error) *Rejection {
	return &Rejection{Kind: KindFormat, Status: http.StatusBadRequest, Body: "Bad Request: invalid header format", Value: raw, err: err}
}

func rejectID(id string) *Rejection {
	return &Rejection{Kind: KindID, Status: http.StatusForbidden, Body: "Forbidden: invalid ID", Value: id}
}

func rejectHash(hash string) *Rejection {
	return &Rejection{Kind: KindHash, Status: http.StatusForbidden, Body: "Forbidden: invalid hash", Value: hash}
}
