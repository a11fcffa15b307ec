package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"restobrowse/internal/types"
)

type serverReporter interface {
	serverError() error
}

// errorFlag decodes the envelope's "error" field, which the API sends as a
// boolean but some deployments send as a string: "true"/"false", "1"/"0", or
// an error message.
type errorFlag struct {
	set bool
	msg string
}

func (f *errorFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = errorFlag{}
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = errorFlag{set: b}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0":
		*f = errorFlag{}
	case "true", "1":
		*f = errorFlag{set: true}
	default:
		*f = errorFlag{set: true, msg: s}
	}
	return nil
}

// envelope is the status part shared by every response.
type envelope struct {
	Error   errorFlag `json:"error"`
	Message string    `json:"message"`
}

func (e envelope) serverError() error {
	if !e.Error.set {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = e.Error.msg
	}
	return &ServerError{Message: msg}
}

type listResponse struct {
	envelope
	Restaurants []types.Restaurant `json:"restaurants"`
}

type detailResponse struct {
	envelope
	Restaurant *types.Restaurant `json:"restaurant"`
}

type reviewResponse struct {
	envelope
	CustomerReviews []types.Review `json:"customerReviews"`
}
