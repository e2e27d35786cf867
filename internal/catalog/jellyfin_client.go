// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
jellyfin_client.go - Jellyfin REST API Client

Implements Client against the Jellyfin REST API: user views, item queries,
resume/next-up/latest shelves, live TV programs and the played/favorite
user-data writes. Every request passes through an optional token-bucket
limiter so one feed session cannot flood the server.

API Reference: https://api.jellyfin.org/
*/

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Ensure JellyfinClient implements Client
var _ Client = (*JellyfinClient)(nil)

const clientVersion = "1.0.0"

// maxErrorBody caps how much of an error response is copied into StatusError.
const maxErrorBody = 512

// JellyfinClientConfig configures a JellyfinClient.
type JellyfinClientConfig struct {
	BaseURL  string
	APIKey   string
	UserID   string // Optional: user the feed is built for
	DeviceID string
	Timeout  time.Duration

	// RequestsPerSecond <= 0 disables the outbound limiter.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// JellyfinClient provides access to the Jellyfin REST API.
type JellyfinClient struct {
	baseURL    string
	apiKey     string
	userID     string
	deviceID   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewJellyfinClient creates a new Jellyfin API client.
func NewJellyfinClient(cfg JellyfinClientConfig) *JellyfinClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = "marquee"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &JellyfinClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userID:     cfg.UserID,
		deviceID:   deviceID,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// Ping tests connectivity to the Jellyfin server.
func (c *JellyfinClient) Ping(ctx context.Context) error {
	return c.send(ctx, "ping", http.MethodGet, "/System/Ping")
}

// CurrentUser resolves the configured user. With no user configured it
// returns (nil, nil) so the feed stays Pending instead of failing.
func (c *JellyfinClient) CurrentUser(ctx context.Context) (*models.User, error) {
	if c.userID == "" {
		return nil, nil
	}

	var user models.JellyfinUser
	if err := c.getJSON(ctx, "user", "/Users/"+url.PathEscape(c.userID), nil, &user); err != nil {
		return nil, err
	}
	return &models.User{ID: user.ID, Name: user.Name}, nil
}

// GetUserViews lists the user's library views.
func (c *JellyfinClient) GetUserViews(ctx context.Context, userID string) ([]models.Library, error) {
	var result models.JellyfinItemsResult
	endpoint := "/Users/" + url.PathEscape(userID) + "/Views"
	if err := c.getJSON(ctx, "views", endpoint, nil, &result); err != nil {
		return nil, err
	}

	libs := make([]models.Library, 0, len(result.Items))
	for i := range result.Items {
		libs = append(libs, result.Items[i].ToLibrary())
	}
	return libs, nil
}

// GetItems runs a filtered item query against /Items.
func (c *JellyfinClient) GetItems(ctx context.Context, q ItemQuery) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("userId", q.UserID)
	params.Set("enableUserData", "true")
	params.Set("fields", "DateCreated")
	if q.ParentID != "" {
		params.Set("parentId", q.ParentID)
	}
	if q.SearchTerm != "" {
		params.Set("searchTerm", q.SearchTerm)
	}
	if types := jellyfinTypes(q.Kinds); types != "" {
		params.Set("includeItemTypes", types)
	}
	if len(q.SortBy) > 0 {
		params.Set("sortBy", strings.Join(q.SortBy, ","))
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", string(q.SortOrder))
	}
	params.Set("recursive", strconv.FormatBool(q.Recursive))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var result models.JellyfinItemsResult
	if err := c.getJSON(ctx, "items", "/Items", params, &result); err != nil {
		return nil, err
	}
	return models.MediaItemsFromJellyfin(result.Items), nil
}

// GetResumeItems lists in-progress video items.
func (c *JellyfinClient) GetResumeItems(ctx context.Context, userID string, limit int) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("mediaTypes", "Video")
	params.Set("enableUserData", "true")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var result models.JellyfinItemsResult
	endpoint := "/Users/" + url.PathEscape(userID) + "/Items/Resume"
	if err := c.getJSON(ctx, "resume", endpoint, params, &result); err != nil {
		return nil, err
	}
	return models.MediaItemsFromJellyfin(result.Items), nil
}

// GetNextUp lists next-up episodes. Resumable episodes are excluded since
// they already appear in the resume shelf.
func (c *JellyfinClient) GetNextUp(ctx context.Context, q NextUpQuery) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("userId", q.UserID)
	params.Set("enableUserData", "true")
	params.Set("enableResumable", "false")
	params.Set("enableRewatching", strconv.FormatBool(q.EnableRewatching))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var result models.JellyfinItemsResult
	if err := c.getJSON(ctx, "next_up", "/Shows/NextUp", params, &result); err != nil {
		return nil, err
	}
	return models.MediaItemsFromJellyfin(result.Items), nil
}

// GetLatest lists recently added items under parentID. Jellyfin returns a
// bare array here rather than the usual envelope.
func (c *JellyfinClient) GetLatest(ctx context.Context, userID, parentID string, limit int) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("enableUserData", "true")
	params.Set("groupItems", "true")
	if parentID != "" {
		params.Set("parentId", parentID)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var items []models.JellyfinItem
	endpoint := "/Users/" + url.PathEscape(userID) + "/Items/Latest"
	if err := c.getJSON(ctx, "latest", endpoint, params, &items); err != nil {
		return nil, err
	}
	return models.MediaItemsFromJellyfin(items), nil
}

// GetPrograms lists live TV programs in the requested window.
func (c *JellyfinClient) GetPrograms(ctx context.Context, q ProgramQuery) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("userId", q.UserID)
	params.Set("enableUserData", "true")
	params.Set("sortBy", SortByStartDate)
	params.Set("sortOrder", string(Ascending))
	if !q.MaxStartDate.IsZero() {
		params.Set("maxStartDate", q.MaxStartDate.UTC().Format(time.RFC3339))
	}
	if !q.MinEndDate.IsZero() {
		params.Set("minEndDate", q.MinEndDate.UTC().Format(time.RFC3339))
	}
	if q.SportsOnly {
		params.Set("isSports", "true")
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var result models.JellyfinItemsResult
	if err := c.getJSON(ctx, "programs", "/LiveTv/Programs", params, &result); err != nil {
		return nil, err
	}
	return models.MediaItemsFromJellyfin(result.Items), nil
}

// SetPlayed marks an item played (POST) or unplayed (DELETE).
func (c *JellyfinClient) SetPlayed(ctx context.Context, userID, itemID string, played bool) error {
	method := http.MethodDelete
	if played {
		method = http.MethodPost
	}
	endpoint := fmt.Sprintf("/Users/%s/PlayedItems/%s", url.PathEscape(userID), url.PathEscape(itemID))
	return c.send(ctx, "set_played", method, endpoint)
}

// SetFavorite marks an item favorite (POST) or removes the mark (DELETE).
func (c *JellyfinClient) SetFavorite(ctx context.Context, userID, itemID string, favorite bool) error {
	method := http.MethodDelete
	if favorite {
		method = http.MethodPost
	}
	endpoint := fmt.Sprintf("/Users/%s/FavoriteItems/%s", url.PathEscape(userID), url.PathEscape(itemID))
	return c.send(ctx, "set_favorite", method, endpoint)
}

// getJSON performs a GET and decodes a 200 response into out.
func (c *JellyfinClient) getJSON(ctx context.Context, op, endpoint string, params url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogRequest(op, time.Since(start), err) }()

	if params != nil && len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return fmt.Errorf("jellyfin %s request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newStatusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode jellyfin %s: %w", op, err)
	}
	return nil
}

// send performs a request whose response body is not needed.
func (c *JellyfinClient) send(ctx context.Context, op, method, endpoint string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogRequest(op, time.Since(start), err) }()

	resp, err := c.doRequest(ctx, method, endpoint)
	if err != nil {
		return fmt.Errorf("jellyfin %s request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Jellyfin answers user-data writes with 200 and a body, or 204 on newer servers
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return newStatusError(op, resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// doRequest waits for the limiter and performs an authenticated request.
func (c *JellyfinClient) doRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Client", "Marquee")
	req.Header.Set("X-Emby-Device-Name", "Marquee")
	req.Header.Set("X-Emby-Device-Id", c.deviceID)
	req.Header.Set("X-Emby-Client-Version", clientVersion)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func newStatusError(op string, resp *http.Response) *StatusError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// jellyfinTypes renders kinds as a comma-separated includeItemTypes value.
func jellyfinTypes(kinds []models.MediaKind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if n := k.JellyfinType(); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ",")
}
