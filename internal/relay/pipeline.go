package relay

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"rssrelay/internal/fetch"
	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
	"rssrelay/proxypool/scraper"
)

// ErrExhausted is returned when every configured source, attempt round and
// proxy candidate has been tried without a valid fetch.
var ErrExhausted = errors.New("all proxy sources exhausted")

// SourceSpec binds one proxy source to its per-source round budget. The
// slice handed to New is the fixed fallback order for the whole run.
type SourceSpec struct {
	Name     string
	Attempts int
	Source   scraper.Source
}

// Attempter performs one proxied fetch attempt. Satisfied by
// *fetch.Fetcher; tests inject fakes.
type Attempter interface {
	Attempt(ctx context.Context, targetURL string, p model.Proxy) fetch.Result
}

// Pipeline drives the failover run: sources in configured order, proxies in
// freshly shuffled order per round, first success wins.
type Pipeline struct {
	specs   []SourceSpec
	fetcher Attempter
	rng     *rand.Rand
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRand replaces the shuffle randomness source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// New creates a Pipeline over the given fallback order.
func New(specs []SourceSpec, fetcher Attempter, opts ...Option) *Pipeline {
	p := &Pipeline{
		specs:   specs,
		fetcher: fetcher,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full failover pass and returns the first validated
// payload. Candidate batches are scraped fresh per source and never reused
// across sources. All candidate failures are non-fatal; only total
// exhaustion ends the run with ErrExhausted.
func (pl *Pipeline) Run(ctx context.Context, targetURL string) (string, error) {
	l := logger.WithComponent("Relay").With().Str("run_id", uuid.NewString()).Logger()

	var lastSource, lastProxy string
	for _, spec := range pl.specs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		batch, err := spec.Source.Scrape(ctx)
		if err != nil {
			// A failed listing provider collapses to an empty batch.
			l.Warn().Err(err).Str("source", spec.Name).Msg("Source unavailable, advancing.")
			batch = nil
		}
		if len(batch) == 0 {
			l.Info().Str("source", spec.Name).Msg("No candidates from source, advancing.")
			continue
		}

		l.Info().Str("source", spec.Name).Int("candidates", len(batch)).Int("attempts", spec.Attempts).Msg("Trying source.")

		for round := 1; round <= spec.Attempts; round++ {
			// Fresh shuffle each round spreads load and avoids stalling on
			// the same dead proxies in the same order.
			pl.rng.Shuffle(len(batch), func(i, j int) {
				batch[i], batch[j] = batch[j], batch[i]
			})

			for _, p := range batch {
				if err := ctx.Err(); err != nil {
					return "", err
				}

				lastSource, lastProxy = spec.Name, p.URL()
				res := pl.fetcher.Attempt(ctx, targetURL, p)
				switch res.Status {
				case fetch.StatusSuccess:
					l.Info().Str("source", spec.Name).Str("proxy", p.URL()).Int("round", round).Msg("Fetched valid content.")
					return res.Content, nil
				case fetch.StatusInvalid:
					l.Warn().Str("proxy", p.URL()).Str("reason", res.Reason).Msg("Proxy returned invalid content.")
				case fetch.StatusNetworkFailure:
					l.Debug().Str("proxy", p.URL()).Err(res.Err).Msg("Proxy attempt failed.")
				}
			}
		}

		l.Info().Str("source", spec.Name).Msg("Source exhausted, advancing.")
	}

	if lastSource == "" {
		return "", ErrExhausted
	}
	return "", fmt.Errorf("%w (last tried %s via %s)", ErrExhausted, lastProxy, lastSource)
}
