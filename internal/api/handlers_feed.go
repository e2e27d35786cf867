// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/feed"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// Feed returns the current snapshot. It never blocks on a load in progress:
// rows still loading are reported as such.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.store.Snapshot())
}

// Refresh starts a new load session, superseding any running one. The body
// is optional; fields it sets override the previous session's options.
//
// With ?wait=true the handler blocks until phase one has published (or the
// request ends) and returns the snapshot. Otherwise it answers 202 at once.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RefreshRequest
	if err := decodeJSONBody(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		writeValidationError(rw, apiErr)
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

	if req.ReloadLibraries && h.views != nil {
		h.views.Invalidate("")
	}

	handle := h.orchestrator.StartOrRefresh(r.Context(), req.apply(h.orchestrator.Options()))
	logging.Ctx(r.Context()).Info().
		Uint64("session", handle.Session()).
		Str("load_id", handle.ID()).
		Bool("wait", wait).
		Msg("Feed reload requested")

	if !wait {
		rw.Accepted(RefreshResponse{Session: handle.Session(), LoadID: handle.ID()})
		return
	}

	if err := handle.Wait(r.Context()); err != nil {
		h.writeFeedError(rw, err)
		return
	}
	rw.Success(h.store.Snapshot())
}

// ItemAction records a watched or favorite change for one item and reloads
// the feed. The write is synchronous; the reload is not.
func (h *Handler) ItemAction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := ItemActionRequest{}
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	req.ItemID = chi.URLParam(r, "id")
	if apiErr := validateRequest(&req); apiErr != nil {
		writeValidationError(rw, apiErr)
		return
	}

	action, err := feed.ParseAction(req.Action)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	handle, err := h.orchestrator.RecordUserAction(r.Context(), req.ItemID, action)
	if err != nil {
		h.writeFeedError(rw, err)
		return
	}

	rw.Accepted(ActionResponse{
		ItemID:  req.ItemID,
		Action:  string(action),
		Session: handle.Session(),
		LoadID:  handle.ID(),
	})
}

// Backdrop sets or clears the item shown behind the feed.
func (h *Handler) Backdrop(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BackdropRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		writeValidationError(rw, apiErr)
		return
	}

	if req.Item == nil {
		h.orchestrator.UpdateBackdrop(nil)
		rw.NoContent()
		return
	}

	kind := models.KindFromJellyfinType(req.Item.Kind)
	if kind == models.KindOther && req.Item.Kind != "" {
		kind = models.MediaKind(req.Item.Kind)
	}
	h.orchestrator.UpdateBackdrop(&models.MediaItem{
		ID:    req.Item.ID,
		Title: req.Item.Title,
		Kind:  kind,
	})
	rw.NoContent()
}

// writeFeedError maps orchestrator and catalog errors onto HTTP statuses.
func (h *Handler) writeFeedError(rw *ResponseWriter, err error) {
	switch {
	case rw.r.Context().Err() != nil:
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Request ended while waiting for feed")
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request ended before the feed loaded")
	case errors.Is(err, feed.ErrNoUser):
		rw.Conflict("No media server user is configured")
	case errors.Is(err, feed.ErrSuperseded):
		rw.Conflict("Load was superseded by a newer one")
	case errors.Is(err, feed.ErrInvalidOptions), errors.Is(err, feed.ErrUnknownAction):
		rw.BadRequest(err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("Item not found")
	default:
		rw.ExternalServiceError("jellyfin", err)
	}
}
