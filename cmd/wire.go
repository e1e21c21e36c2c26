package main

import (
	"golang.org/x/time/rate"

	"github.com/sells-group/webresearch/internal/capability"
	"github.com/sells-group/webresearch/internal/config"
	"github.com/sells-group/webresearch/internal/scrape"
	"github.com/sells-group/webresearch/internal/summarize"
	"github.com/sells-group/webresearch/internal/tournament"
	"github.com/sells-group/webresearch/pkg/duckduckgo"
)

// app holds the collaborators every command shares.
type app struct {
	search     duckduckgo.Client
	summarizer *summarize.Summarizer
	research   *tournament.Orchestrator
	registry   *capability.Registry
}

// researchApp validates the loaded config and wires the app for the
// research commands.
func researchApp() (*app, error) {
	if err := cfg.Validate("research"); err != nil {
		return nil, err
	}
	return newApp(cfg), nil
}

func newApp(c *config.Config) *app {
	opts := []duckduckgo.Option{
		duckduckgo.WithBaseURL(c.Search.BaseURL),
		duckduckgo.WithTimeout(c.Search.Timeout()),
		duckduckgo.WithMaxResults(c.Search.MaxResults),
	}
	if c.Search.UserAgent != "" {
		opts = append(opts, duckduckgo.WithUserAgent(c.Search.UserAgent))
	}
	if c.Search.RatePerSec > 0 {
		opts = append(opts, duckduckgo.WithLimiter(rate.NewLimiter(rate.Limit(c.Search.RatePerSec), max(c.Search.Burst, 1))))
	}
	search := duckduckgo.NewClient(opts...)

	fetcher := scrape.NewPageFetcher(scrape.Options{
		UserAgent:    c.Fetch.UserAgent,
		Timeout:      c.Fetch.Timeout(),
		MaxBodyBytes: c.Fetch.MaxBodyBytes,
	})
	summarizer := summarize.New(fetcher, c.Fetch.MaxLength)

	research := tournament.New(search, summarizer, tournament.Config{
		CandidateLimit: c.Tournament.CandidateLimit,
		RoundWindow:    c.Tournament.RoundWindow,
	})

	return &app{
		search:     search,
		summarizer: summarizer,
		research:   research,
		registry: capability.NewRegistry(
			capability.SearchCapability{Client: search},
			capability.FetchCapability{Summarizer: summarizer},
			capability.TournamentCapability{Researcher: research},
		),
	}
}
