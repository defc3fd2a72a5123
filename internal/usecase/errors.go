package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUpstream     = errors.New("upstream unavailable")
)

// UpstreamError is any failure talking to the schedule provider: transport,
// timeout, non-2xx status, undecodable body or an open circuit.
type UpstreamError struct {
	Resource string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ErrUpstream.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: upstream status=%d: %v", e.Resource, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// MatchNotFoundError is returned when no feed produced the requested slug.
// FailedSports lists feeds that could not be searched, so a miss during an
// upstream outage can be told apart from a genuine miss.
type MatchNotFoundError struct {
	Slug         string
	FailedSports []sport.Key
}

func (e *MatchNotFoundError) Error() string {
	if len(e.FailedSports) == 0 {
		return fmt.Sprintf("match %q: %v", e.Slug, ErrNotFound)
	}
	return fmt.Sprintf("match %q: %v (unavailable feeds: %s)", e.Slug, ErrNotFound, e.FailedFeeds())
}

func (e *MatchNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FailedFeeds joins the failed sport keys with commas.
func (e *MatchNotFoundError) FailedFeeds() string {
	keys := make([]string, 0, len(e.FailedSports))
	for _, key := range e.FailedSports {
		keys = append(keys, key.String())
	}
	return strings.Join(keys, ",")
}
