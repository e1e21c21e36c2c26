// Package tournament answers a question by searching the web and running a
// knockout comparison over the fetched candidate pages.
package tournament

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/webresearch/internal/model"
	"github.com/sells-group/webresearch/pkg/duckduckgo"
)

const (
	// DefaultCandidateLimit is how many search results enter the comparison.
	DefaultCandidateLimit = 8
	// DefaultRoundWindow is how many leading candidates are paired.
	DefaultRoundWindow = 4
)

// Summarizer fetches a page and bounds it around a focus phrase.
type Summarizer interface {
	FetchAndSummarize(ctx context.Context, url, focus string) (model.Summary, error)
}

// Config holds the orchestrator's tuning knobs. Zero values take the defaults.
type Config struct {
	// CandidateLimit caps how many search results are considered.
	CandidateLimit int
	// RoundWindow is how many leading candidates are paired in round one.
	RoundWindow int
}

// Orchestrator runs research calls. It holds no per-call state, so one value
// may serve concurrent Answer calls.
type Orchestrator struct {
	search     duckduckgo.Client
	summarizer Summarizer
	cfg        Config
}

// New creates an Orchestrator.
func New(search duckduckgo.Client, summarizer Summarizer, cfg Config) *Orchestrator {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultCandidateLimit
	}
	if cfg.RoundWindow <= 0 {
		cfg.RoundWindow = DefaultRoundWindow
	}
	return &Orchestrator{search: search, summarizer: summarizer, cfg: cfg}
}

// participant is one side of a pair after its fetch completed.
type participant struct {
	result  model.SearchResult
	summary model.Summary
	err     error
}

// Answer searches for question, compares the candidate pages pair by pair
// and returns the best-supported answer. A search failure or cancellation
// is returned as an error; running out of usable sources is an Outcome.
func (o *Orchestrator) Answer(ctx context.Context, question string) (model.Answer, error) {
	log := zap.L().With(zap.String("request_id", uuid.NewString()))
	start := time.Now()

	results, err := o.search.Search(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			return model.Answer{}, eris.Wrap(ctx.Err(), "tournament: research cancelled")
		}
		return model.Answer{}, eris.Wrap(err, "tournament: search")
	}
	if len(results) == 0 {
		log.Info("tournament: no search results", zap.String("question", question))
		return model.Answer{Outcome: model.OutcomeNoResults, Question: question}, nil
	}

	candidates := results
	if len(candidates) > o.cfg.CandidateLimit {
		candidates = candidates[:o.cfg.CandidateLimit]
	}
	window := min(o.cfg.RoundWindow, len(candidates))
	if window%2 == 1 {
		log.Debug("tournament: dropping unpaired candidate",
			zap.String("url", candidates[window-1].URL),
		)
	}

	var winners []model.RoundWinner
	for i := 0; i+1 < window; i += 2 {
		pair := i / 2
		winner, ok, err := o.playPair(ctx, log, pair, candidates[i], candidates[i+1], question)
		if err != nil {
			return model.Answer{}, err
		}
		if ok {
			winners = append(winners, winner)
		}
	}

	if len(winners) == 0 {
		log.Warn("tournament: no pair produced a winner",
			zap.Int("candidates", len(candidates)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return model.Answer{Outcome: model.OutcomeFailed, Question: question}, nil
	}

	best := FinalPick(winners)
	log.Info("tournament: answer selected",
		zap.String("url", best.URL),
		zap.Int("winners", len(winners)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return model.Answer{
		Outcome:       model.OutcomeAnswered,
		Question:      question,
		Text:          best.Summary,
		SourceURL:     best.URL,
		SourceTitle:   best.Title,
		ComparedCount: len(winners),
		Winners:       winners,
	}, nil
}

// playPair fetches both members concurrently, joins, then scores. ok is false
// when both members failed.
func (o *Orchestrator) playPair(ctx context.Context, log *zap.Logger, pair int, a, b model.SearchResult, question string) (model.RoundWinner, bool, error) {
	var sides [2]participant
	sides[0].result = a
	sides[1].result = b

	// Member failures are recorded in their slot, not returned, so one
	// failing page never cancels its opponent.
	var g errgroup.Group
	for i := range sides {
		g.Go(func() error {
			sides[i].summary, sides[i].err = o.summarizer.FetchAndSummarize(ctx, sides[i].result.URL, question)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return model.RoundWinner{}, false, eris.Wrap(ctx.Err(), "tournament: research cancelled")
	}

	for _, s := range sides {
		if s.err != nil {
			log.Warn("tournament: participant failed",
				zap.Int("pair", pair),
				zap.String("url", s.result.URL),
				zap.Error(s.err),
			)
		}
	}

	w, ok := pickWinner(sides, question)
	if !ok {
		return model.RoundWinner{}, false, nil
	}
	w.Pair = pair
	log.Debug("tournament: pair decided",
		zap.Int("pair", pair),
		zap.String("url", w.URL),
		zap.Int("score", w.Score),
	)
	return w, true, nil
}

// pickWinner applies the pair rules: a failed member loses, the higher score
// wins and a tie goes to the first member.
func pickWinner(sides [2]participant, question string) (model.RoundWinner, bool) {
	var (
		best      model.RoundWinner
		bestScore = -1
	)
	for _, s := range sides {
		if s.err != nil {
			continue
		}
		score := Score(s.summary.Text, question)
		if score > bestScore {
			bestScore = score
			best = model.RoundWinner{
				URL:     s.result.URL,
				Title:   s.result.Title,
				Summary: s.summary.Text,
				Score:   score,
			}
		}
	}
	return best, bestScore >= 0
}

// FinalPick returns the round winner with the longest summary, the earliest
// on ties. winners must not be empty.
func FinalPick(winners []model.RoundWinner) model.RoundWinner {
	best := winners[0]
	bestLen := len([]rune(best.Summary))
	for _, w := range winners[1:] {
		if n := len([]rune(w.Summary)); n > bestLen {
			best, bestLen = w, n
		}
	}
	return best
}
