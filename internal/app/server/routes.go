package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"scriptgate/internal/content"
	"scriptgate/internal/gate"
)

const (
	bodyNotFound   = "Not Found"
	bodyReadFailed = "Internal Server Error: could not read file"
)

// Checker is satisfied by *gate.Validator.
type Checker interface {
	Check(r *http.Request) (gate.Credential, error)
}

type handler struct {
	route     string
	validator Checker
	source    content.Source
	logger    *log.Logger
}

func writeText(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NewHandler returns the script endpoint. Only GET on route is served; every
// other method or path gets a 404. The route is compared against the raw
// request target, so absolute-form and query-carrying targets never match.
func NewHandler(route string, validator Checker, source content.Source, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &handler{route: route, validator: validator, source: source, logger: logger}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.RequestURI != h.route {
		writeText(w, http.StatusNotFound, []byte(bodyNotFound))
		return
	}

	cred, err := h.validator.Check(r)
	if err != nil {
		var rej *gate.Rejection
		if errors.As(err, &rej) {
			writeText(w, rej.Status, []byte(rej.Body))
			return
		}
		h.logger.Error("validator failed", "error", err)
		writeText(w, http.StatusInternalServerError, []byte(http.StatusText(http.StatusInternalServerError)))
		return
	}

	data, err := h.source.Read(r.Context())
	if err != nil {
		h.logger.Error("could not read script", "error", err)
		writeText(w, http.StatusInternalServerError, []byte(bodyReadFailed))
		return
	}

	h.logger.Debug("script served", "id", cred.IDText, "ip", gate.RemoteIP(r), "bytes", len(data))
	writeText(w, http.StatusOK, data)
}
