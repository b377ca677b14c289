// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"errors"
	"io/fs"
)

// Conversion errors. Callers match with errors.Is; the batch layer uses
// Classify to bucket them for reports and history.
var (
	// ErrMissingPayload means the archive has no content.json entry.
	ErrMissingPayload = errors.New("archive has no content.json entry")

	// ErrMalformedPayload means the payload exists but is not valid JSON.
	ErrMalformedPayload = errors.New("payload is not valid JSON")

	// ErrInvalidFormat means the decoded payload does not satisfy the
	// document shape, or an unrecognized rendering mode was supplied.
	ErrInvalidFormat = errors.New("invalid document format")
)

// Kind buckets a conversion error for reporting.
type Kind string

const (
	KindMissingPayload   Kind = "missing-payload"
	KindMalformedPayload Kind = "malformed-payload"
	KindInvalidFormat    Kind = "invalid-format"
	KindIO               Kind = "io"
	KindOther            Kind = "other"
)

// Classify maps a conversion error to its reporting kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingPayload):
		return KindMissingPayload
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return KindIO
	}
	return KindOther
}
