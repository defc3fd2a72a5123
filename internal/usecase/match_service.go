package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/domain/sport"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const defaultMaxConcurrency = 10

type MatchServiceConfig struct {
	Images   match.ImageURLs
	Keywords match.KeywordSet
	// MaxConcurrency bounds the per-sport fetches of one request.
	MaxConcurrency int
	// FetchTimeout limits each per-sport fetch of a fan-out. Zero leaves
	// the client timeout in charge.
	FetchTimeout time.Duration
	Logger       *logging.Logger
	Now          func() time.Time
}

type MatchService struct {
	provider     match.Provider
	filter       *match.Filter
	images       match.ImageURLs
	concurrency  int
	fetchTimeout time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

func NewMatchService(provider match.Provider, cfg MatchServiceConfig) *MatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	concurrency := cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = defaultMaxConcurrency
	}

	return &MatchService{
		provider:     provider,
		filter:       match.NewFilter(cfg.Keywords),
		images:       cfg.Images,
		concurrency:  concurrency,
		fetchTimeout: cfg.FetchTimeout,
		logger:       logger,
		now:          now,
	}
}

// ListSports returns the upstream sports payload unchanged.
func (s *MatchService) ListSports(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListSports")
	defer span.End()

	raw, err := s.provider.FetchSports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return raw, nil
}

// ListMatches returns the filtered upstream records of one sport feed.
// Unknown sport keys are forwarded as-is and left to the upstream.
func (s *MatchService) ListMatches(ctx context.Context, sportKey string) ([]match.RawMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches", attribute.String("sport", sportKey))
	defer span.End()

	sportKey = strings.TrimSpace(sportKey)
	if sportKey == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrInvalidInput)
	}

	items, err := s.provider.FetchMatches(ctx, sportKey)
	if err != nil {
		return nil, fmt.Errorf("list %s matches: %w", sportKey, err)
	}

	return s.applyFilter(ctx, items, sport.Key(sportKey)), nil
}

// ListSportMatches normalizes a known sport feed for page rendering. Every
// match carries the slug its page is reachable under.
func (s *MatchService) ListSportMatches(ctx context.Context, key sport.Key) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListSportMatches", attribute.String("sport", key.String()))
	defer span.End()

	if _, ok := sport.Parse(key.String()); !ok {
		return nil, fmt.Errorf("%w: unknown sport=%s", ErrInvalidInput, key)
	}

	items, err := s.provider.FetchMatches(ctx, key.String())
	if err != nil {
		return nil, fmt.Errorf("list %s matches: %w", key, err)
	}

	now := s.now().UTC()
	kept := s.applyFilter(ctx, items, key)
	out := make([]match.Match, 0, len(kept))
	for _, raw := range kept {
		out = append(out, match.Normalize(raw, key, match.LinkSlug(raw, key, now), now, s.images))
	}
	return out, nil
}

func (s *MatchService) GetStream(ctx context.Context, source, id string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetStream", attribute.String("stream.source", source))
	defer span.End()

	source = strings.TrimSpace(source)
	id = strings.TrimSpace(id)
	if source == "" || id == "" {
		return nil, fmt.Errorf("%w: source and id are required", ErrInvalidInput)
	}

	raw, err := s.provider.FetchStream(ctx, source, id)
	if err != nil {
		return nil, fmt.Errorf("get stream %s/%s: %w", source, id, err)
	}
	return raw, nil
}

func (s *MatchService) GetStreamEmbed(ctx context.Context, id string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetStreamEmbed")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	raw, err := s.provider.FetchStreamEmbed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get stream embed %s: %w", id, err)
	}
	return raw, nil
}

// ResolveBySlug finds the first record, in sport declaration order and then
// upstream order, whose id or link slug equals slug. Feeds are fetched
// concurrently but scanned in order, so the result is the same as a
// sequential search. A failed feed is skipped and reported on the
// MatchNotFoundError when nothing matches.
func (s *MatchService) ResolveBySlug(ctx context.Context, slug string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveBySlug", attribute.String("match.slug", slug))
	defer span.End()

	if strings.TrimSpace(slug) == "" {
		return match.Match{}, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	feeds := s.fetchFeeds(ctx, sport.All())

	var failed []sport.Key
	for _, feed := range feeds {
		if feed.err != nil {
			failed = append(failed, feed.key)
			s.logger.WarnContext(ctx, "skip sport feed during match resolution", "sport", feed.key, "slug", slug, "error", feed.err)
			continue
		}

		for _, raw := range s.filter.Apply(feed.items, feed.key) {
			if raw.ID == slug || match.LinkSlug(raw, feed.key, now) == slug {
				return match.Normalize(raw, feed.key, slug, now, s.images), nil
			}
		}
	}

	return match.Match{}, &MatchNotFoundError{Slug: slug, FailedSports: failed}
}

// LiveCounts returns the number of live records per sport. Sports whose feed
// failed are absent from the map.
func (s *MatchService) LiveCounts(ctx context.Context) map[sport.Key]int {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.LiveCounts")
	defer span.End()

	keys := sport.All()
	counts := make(map[sport.Key]int, len(keys))

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		s.logger.WarnContext(ctx, "create live count worker pool failed", "error", err)
		return counts
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
	)
	for _, key := range keys {
		key := key
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			feed := s.fetchFeed(ctx, key)
			if feed.err != nil {
				s.logger.DebugContext(ctx, "live count unavailable", "sport", key, "error", feed.err)
				return
			}

			live := 0
			for _, raw := range s.filter.Apply(feed.items, key) {
				if match.ResolveStatus(raw) == match.StatusLive {
					live++
				}
			}

			mu.Lock()
			counts[key] = live
			mu.Unlock()
		}); err != nil {
			workers.Done()
			s.logger.WarnContext(ctx, "submit live count task failed", "sport", key, "error", err)
		}
	}
	workers.Wait()

	return counts
}

type sportFeed struct {
	key   sport.Key
	items []match.RawMatch
	err   error
}

func (s *MatchService) fetchFeeds(ctx context.Context, keys []sport.Key) []sportFeed {
	mapper := iter.Mapper[sport.Key, sportFeed]{MaxGoroutines: s.concurrency}
	return mapper.Map(keys, func(key *sport.Key) sportFeed {
		return s.fetchFeed(ctx, *key)
	})
}

func (s *MatchService) fetchFeed(ctx context.Context, key sport.Key) sportFeed {
	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	items, err := s.provider.FetchMatches(fetchCtx, key.String())
	return sportFeed{key: key, items: items, err: err}
}

func (s *MatchService) applyFilter(ctx context.Context, items []match.RawMatch, key sport.Key) []match.RawMatch {
	kept, dropped := s.filter.Partition(items, key)
	for _, exclusion := range dropped {
		s.logger.DebugContext(ctx, "drop cross-sport record",
			"sport", key,
			"match_id", exclusion.Match.ID,
			"title", exclusion.Match.Title,
			"vocabulary", exclusion.Vocabulary,
			"keyword", exclusion.Keyword,
		)
	}
	return kept
}
