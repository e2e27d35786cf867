// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

var (
	// ErrNoUser means no catalog user is configured; the feed stays Pending.
	ErrNoUser = errors.New("feed: no current user")

	// ErrSuperseded means a newer session started before this one published.
	ErrSuperseded = errors.New("feed: session superseded")

	// ErrUnknownAction is returned for an unsupported user action.
	ErrUnknownAction = errors.New("feed: unknown action")

	// ErrInvalidOptions is returned for options that cannot drive a session.
	ErrInvalidOptions = errors.New("feed: invalid options")
)

// Options are the per-session feed settings.
type Options struct {
	MaxItemsPerRow         int
	EnableRewatchingNextUp bool
	CombineContinueNext    bool
	CombineStrategy        string
	HeroLimit              int
	MaxConcurrentQueries   int
	ExcludedLibraries      []string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxItemsPerRow:       25,
		CombineStrategy:      StrategyRecent,
		HeroLimit:            DefaultHeroLimit,
		MaxConcurrentQueries: 8,
	}
}

// OptionsFromConfig builds session options from the feed configuration.
func OptionsFromConfig(cfg *config.FeedConfig) Options {
	return Options{
		MaxItemsPerRow:         cfg.MaxItemsPerRow,
		EnableRewatchingNextUp: cfg.EnableRewatchingNextUp,
		CombineContinueNext:    cfg.CombineContinueNext,
		CombineStrategy:        cfg.CombineStrategy,
		HeroLimit:              cfg.HeroLimit,
		MaxConcurrentQueries:   cfg.MaxConcurrentQueries,
		ExcludedLibraries:      append([]string(nil), cfg.ExcludedLibraries...),
	}
}

func (o Options) validate() (Combiner, error) {
	if o.MaxItemsPerRow <= 0 {
		return nil, fmt.Errorf("%w: max items per row must be positive, got %d", ErrInvalidOptions, o.MaxItemsPerRow)
	}
	combiner, err := NewCombiner(o.CombineStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return combiner, nil
}

// session is the read-only state shared by one load's sources.
type session struct {
	id      uint64
	cold    bool
	handle  *Handle
	opts    Options
	combine Combiner
}

// Orchestrator builds the home feed in two phases. Phase one publishes the
// continue-watching rows and placeholders for everything else; phase two
// resolves the hero carousel, sports and each latest row concurrently, each
// publishing as it finishes. Starting a new session cancels the previous
// one and its late results are discarded by the store.
type Orchestrator struct {
	client catalog.Client
	store  *Store
	hero   *HeroSelector
	now    func() time.Time

	mu      sync.Mutex
	opts    Options
	cancel  context.CancelFunc
	running *Handle
	wg      sync.WaitGroup
}

// NewOrchestrator creates an orchestrator publishing into store. A nil hero
// selector uses the default featured container name.
func NewOrchestrator(client catalog.Client, store *Store, hero *HeroSelector) *Orchestrator {
	if store == nil {
		store = NewStore()
	}
	if hero == nil {
		hero = NewHeroSelector(client, HeroOptions{})
	}
	return &Orchestrator{
		client: client,
		store:  store,
		hero:   hero,
		now:    time.Now,
		opts:   DefaultOptions(),
	}
}

// Store returns the store the orchestrator publishes into.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// Options returns the options of the most recent session.
func (o *Orchestrator) Options() Options {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opts
}

// SetOptions replaces the options the next Refresh uses without starting
// a session.
func (o *Orchestrator) SetOptions(opts Options) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opts = opts
}

// StartOrRefresh starts a load session and returns immediately. Any session
// still running is cancelled. ctx supplies log fields only; the session
// outlives the caller's request and ends with Close or supersession.
func (o *Orchestrator) StartOrRefresh(ctx context.Context, opts Options) *Handle {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running != nil {
		select {
		case <-o.running.Done():
		default:
			metrics.FeedSessionsSuperseded.Inc()
		}
	}
	if o.cancel != nil {
		o.cancel()
	}
	o.opts = opts

	id, cold := o.store.begin()
	handle := newHandle(id, uuid.NewString())
	metrics.RecordFeedSession(!cold)

	sessCtx := logging.ContextWithLogger(context.WithoutCancel(ctx), logging.WithComponent("feed"))
	sessCtx, cancel := context.WithCancel(logging.ContextWithSessionID(sessCtx, handle.id))
	o.cancel = cancel
	o.running = handle

	sess := &session{id: id, cold: cold, handle: handle, opts: opts}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()
		defer close(handle.done)
		o.run(sessCtx, sess)
	}()

	return handle
}

// Refresh re-runs the feed with the most recent options.
func (o *Orchestrator) Refresh(ctx context.Context) *Handle {
	return o.StartOrRefresh(ctx, o.Options())
}

// RecordUserAction writes action for itemID to the catalog and then
// re-runs the feed so it reflects the server's view. On a write failure
// the feed is left untouched and the error is returned.
func (o *Orchestrator) RecordUserAction(ctx context.Context, itemID string, action Action) (*Handle, error) {
	if itemID == "" {
		return nil, fmt.Errorf("feed: item id is required")
	}

	user, err := o.client.CurrentUser(ctx)
	if err != nil {
		metrics.RecordUserAction(string(action), err)
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		metrics.RecordUserAction(string(action), ErrNoUser)
		return nil, ErrNoUser
	}

	err = action.apply(ctx, o.client, user.ID, itemID)
	metrics.RecordUserAction(string(action), err)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", action, itemID, err)
	}

	logging.Ctx(ctx).Info().Str("item_id", itemID).Str("action", string(action)).Msg("User action recorded, refreshing feed")
	return o.Refresh(ctx), nil
}

// UpdateBackdrop sets the item shown behind the feed. nil clears it.
func (o *Orchestrator) UpdateBackdrop(item *models.MediaItem) {
	o.store.setBackdrop(item)
}

// Close cancels the running session and waits for its sources to return.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, sess *session) {
	log := logging.Ctx(ctx)
	log.Debug().Bool("cold", sess.cold).Uint64("seq", sess.id).Msg("Feed session started")

	start := time.Now()
	plan, libs, user, err := o.phase1(ctx, sess)
	metrics.RecordFeedPhase("phase1", time.Since(start))
	if err != nil {
		o.endPhase1(ctx, sess, err)
		return
	}
	sess.handle.finishPhase1(nil)
	log.Debug().Int("latest_rows", len(plan)).Msg("Feed phase 1 published")

	start = time.Now()
	o.phase2(ctx, sess, user, libs, plan)
	metrics.RecordFeedPhase("phase2", time.Since(start))
	log.Debug().Dur("duration", time.Since(start)).Msg("Feed phase 2 complete")
}

// endPhase1 resolves a session that stopped before publishing phase one.
func (o *Orchestrator) endPhase1(ctx context.Context, sess *session, err error) {
	switch {
	case errors.Is(err, ErrNoUser):
		o.store.idle(sess.id, sess.cold)
		logging.Ctx(ctx).Info().Msg("No current user, feed not loaded")
	case ctx.Err() != nil || o.store.currentSession() != sess.id:
		err = ErrSuperseded
	default:
		if o.store.fail(sess.id, sess.cold, err) {
			metrics.FeedSessionsFailed.Inc()
			logging.Ctx(ctx).Error().Err(err).Bool("cold", sess.cold).Msg("Error loading home feed")
		} else {
			err = ErrSuperseded
		}
	}
	sess.handle.finishPhase1(err)
}

// phase1 resolves the user and libraries, loads the watching rows and
// publishes them with placeholders for the phase-two rows.
func (o *Orchestrator) phase1(ctx context.Context, sess *session) ([]latestRequest, []models.Library, *models.User, error) {
	combiner, err := sess.opts.validate()
	if err != nil {
		return nil, nil, nil, err
	}
	sess.combine = combiner

	user, err := o.client.CurrentUser(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return nil, nil, nil, ErrNoUser
	}

	limit := sess.opts.MaxItemsPerRow
	var (
		views  []models.Library
		resume []models.MediaItem
		nextUp []models.MediaItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if views, err = o.client.GetUserViews(gctx, user.ID); err != nil {
			return fmt.Errorf("load libraries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if resume, err = o.client.GetResumeItems(gctx, user.ID, limit); err != nil {
			return fmt.Errorf("load continue watching: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		nextUp, err = o.client.GetNextUp(gctx, catalog.NextUpQuery{
			UserID:           user.ID,
			Limit:            limit,
			EnableRewatching: sess.opts.EnableRewatchingNextUp,
		})
		if err != nil {
			return fmt.Errorf("load next up: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	libs := filterLibraries(views, sess.opts.ExcludedLibraries)
	plan := planLatest(libs)

	watching := buildWatchingRows(resume, nextUp, sess.opts.CombineContinueNext, sess.combine, limit)
	placeholders := make([]Row, len(plan))
	for i, req := range plan {
		placeholders[i] = LoadingRow(req.Title)
	}
	sports := []Row{LoadingRow(TitleSportsOnNow)}

	if !o.store.publishPhase1(sess.id, sess.cold, watching, sports, placeholders) {
		return nil, nil, nil, ErrSuperseded
	}
	return plan, libs, user, nil
}

// phase2 runs the hero, sports and latest sources concurrently. Each source
// handles its own failure and publishes its own field.
func (o *Orchestrator) phase2(ctx context.Context, sess *session, user *models.User, libs []models.Library, plan []latestRequest) {
	var g errgroup.Group
	if n := sess.opts.MaxConcurrentQueries; n > 0 {
		g.SetLimit(n)
	}

	g.Go(func() error {
		o.loadHero(ctx, sess, user.ID, libraryIDs(libs))
		return nil
	})
	g.Go(func() error {
		o.loadSportsRow(ctx, sess, user.ID)
		return nil
	})
	for i, req := range plan {
		g.Go(func() error {
			o.loadLatestRow(ctx, sess, user.ID, i, req)
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) loadHero(ctx context.Context, sess *session, userID string, libIDs []string) {
	items := o.hero.Select(ctx, userID, libIDs, sess.opts.HeroLimit)
	if ctx.Err() != nil {
		return
	}
	metrics.RecordSourceOutcome("hero", len(items), nil)
	o.store.publishHero(sess.id, items)
}

func (o *Orchestrator) loadSportsRow(ctx context.Context, sess *session, userID string) {
	items, err := loadSports(ctx, o.client, userID, sess.opts.MaxItemsPerRow, o.now())
	if ctx.Err() != nil {
		return
	}
	metrics.RecordSourceOutcome("sports", len(items), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Error loading sports programs on now")
		items = nil
	}
	o.store.publishSports(sess.id, []Row{SuccessRow(TitleSportsOnNow, items)})
}

func (o *Orchestrator) loadLatestRow(ctx context.Context, sess *session, userID string, index int, req latestRequest) {
	items, err := loadLatest(ctx, o.client, userID, req, sess.opts.MaxItemsPerRow)
	if ctx.Err() != nil {
		return
	}
	metrics.RecordSourceOutcome("latest", len(items), err)

	row := SuccessRow(req.Title, items)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("library_id", req.Library.ID).Msg("Error loading latest row")
		row = ErrorRow(req.Title, err)
	}
	o.store.publishLatestRow(sess.id, index, row)
}
