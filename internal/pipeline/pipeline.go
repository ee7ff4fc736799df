// Package pipeline runs the full proofreading flow: segment, suggest, apply,
// join.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/welljustpia/proofread-api/internal/reqlog"
	"github.com/welljustpia/proofread-api/internal/suggester"
)

// DefaultTerms is used when no term list is configured or the term source
// fails.
var DefaultTerms = []string{"แพทองธาร"}

type Segmenter interface {
	Segment(ctx context.Context, text string) []string
}

type Suggester interface {
	Suggest(ctx context.Context, sentence string, protected []string) string
}

type Applier interface {
	Apply(ctx context.Context, original, suggestions string, protected []string) string
}

// TermSource supplies the protected terms. It is read once per request.
type TermSource interface {
	Terms(ctx context.Context) ([]string, error)
}

// StaticTerms is a fixed term list.
type StaticTerms []string

func (s StaticTerms) Terms(context.Context) ([]string, error) {
	return s, nil
}

// Result is the response of one proofreading request.
type Result struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Config struct {
	// Concurrency bounds how many sentences are suggested and applied at
	// once. Values below 2 run every call in order.
	Concurrency int
	Logger      *slog.Logger
}

type Pipeline struct {
	segmenter Segmenter
	suggester Suggester
	applier   Applier
	terms     TermSource
	config    Config
	log       *slog.Logger
}

func New(seg Segmenter, sug Suggester, app Applier, terms TermSource, config Config) *Pipeline {
	if terms == nil {
		terms = StaticTerms(DefaultTerms)
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Pipeline{
		segmenter: seg,
		suggester: sug,
		applier:   app,
		terms:     terms,
		config:    config,
		log:       config.Logger.With("component", "pipeline"),
	}
}

// Proofread never fails. Every degraded stage echoes its input, so the worst
// case is the segmented sentences joined by single spaces.
func (p *Pipeline) Proofread(ctx context.Context, text string) Result {
	terms := p.protectedTerms(ctx)
	sentences := p.segmenter.Segment(ctx, text)

	var corrected []string
	if p.config.Concurrency == 1 || len(sentences) < 2 {
		corrected = p.sequential(ctx, sentences, terms)
	} else {
		corrected = p.concurrent(ctx, sentences, terms)
	}

	reqlog.Logger(ctx, p.log).Debug("proofread done", "sentences", len(sentences))
	return Result{
		Before: text,
		After:  strings.Join(corrected, " "),
	}
}

func (p *Pipeline) protectedTerms(ctx context.Context) []string {
	terms, err := p.terms.Terms(ctx)
	if err != nil {
		reqlog.Logger(ctx, p.log).Error("term source failed, using default terms", "error", err)
		return DefaultTerms
	}
	return terms
}

// sequential makes all suggestion calls first and then all correction calls.
func (p *Pipeline) sequential(ctx context.Context, sentences, terms []string) []string {
	suggestions := make([]string, len(sentences))
	for i, s := range sentences {
		suggestions[i] = p.suggester.Suggest(ctx, s, terms)
	}

	corrected := make([]string, len(sentences))
	for i, s := range sentences {
		corrected[i] = p.correct(ctx, s, suggestions[i], terms)
	}
	return corrected
}

func (p *Pipeline) concurrent(ctx context.Context, sentences, terms []string) []string {
	type result struct {
		index int
		text  string
	}

	results := make(chan result, len(sentences))
	sem := make(chan struct{}, p.config.Concurrency)

	var wg sync.WaitGroup
	for i, s := range sentences {
		wg.Add(1)
		go func(index int, sentence string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			suggestions := p.suggester.Suggest(ctx, sentence, terms)
			results <- result{index: index, text: p.correct(ctx, sentence, suggestions, terms)}
		}(i, s)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	corrected := make([]string, len(sentences))
	for r := range results {
		corrected[r.index] = r.text
	}
	return corrected
}

func (p *Pipeline) correct(ctx context.Context, sentence, suggestions string, terms []string) string {
	return p.applier.Apply(ctx, sentence, suggester.Sanitize(suggestions, terms), terms)
}
