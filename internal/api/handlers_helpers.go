// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/validation"
)

// maxBodyBytes bounds request bodies. Every body this API accepts is tiny.
const maxBodyBytes = 64 * 1024

var errEmptyBody = errors.New("request body is empty")

// sanitizeLogValue replaces control characters so request-supplied values
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSONBody decodes a size-limited JSON body into dst, rejecting
// unknown fields. An empty body yields errEmptyBody.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// validateRequest runs validator/v10 over v. It returns nil when v is valid.
func validateRequest(v interface{}) *validation.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// writeValidationError writes a 400 for a failed validateRequest.
func writeValidationError(rw *ResponseWriter, apiErr *validation.APIError) {
	rw.ValidationError(apiErr.Message, apiErr.Details)
}
