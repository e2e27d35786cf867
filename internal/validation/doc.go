// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package validation provides struct validation using go-playground/validator v10.
//
// It exposes a thread-safe singleton validator with one custom tag, itemid,
// which accepts Jellyfin item ids (32 hex digits or a dashed GUID). Errors
// are translated into readable messages and can be converted into the API
// error envelope:
//
//	type ItemActionRequest struct {
//	    ItemID string `validate:"required,itemid"`
//	    Action string `validate:"required,oneof=mark_watched mark_unwatched favorite unfavorite"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
