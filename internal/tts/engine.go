package tts

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiktts/tiktts/internal/resilience"
	"github.com/tiktts/tiktts/internal/text"
)

// Engine drives full-text synthesis over a Synthesizer. The upstream
// endpoint only accepts short texts, so the engine splits the input into
// chunks, synthesizes them in parallel, and reassembles the audio in input
// order. Synthesis is all-or-nothing: if any chunk fails, no audio is
// returned.
type Engine struct {
	client   Synthesizer
	splitter *text.Splitter
	limit    int
	retry    *resilience.RetryConfig
	logger   zerolog.Logger
}

// NewEngine creates an engine over the given synthesizer. byteLimit is the
// per-chunk text budget in bytes. retry may be nil for the default
// single-attempt behavior.
func NewEngine(client Synthesizer, byteLimit int, retry *resilience.RetryConfig, logger zerolog.Logger) *Engine {
	if retry == nil {
		retry = resilience.SingleAttempt()
	}
	return &Engine{
		client:   client,
		splitter: text.NewSplitter(),
		limit:    byteLimit,
		retry:    retry,
		logger:   logger,
	}
}

// Chunks returns the request-sized pieces the input would be synthesized as.
func (e *Engine) Chunks(input string) []string {
	return e.splitter.Split(input, e.limit)
}

// SynthesizeAll converts the full input text to audio. The returned bytes
// are the concatenation of every chunk's decoded audio, in input order.
func (e *Engine) SynthesizeAll(ctx context.Context, input, speaker string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyText
	}

	chunks := e.Chunks(input)
	if len(chunks) > 1 {
		e.logger.Debug().Int("chunks", len(chunks)).Msg("splitting text for synthesis")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]byte, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()

			err := resilience.Do(ctx, e.retry, func() error {
				audio, synthErr := e.client.Synthesize(ctx, chunk, speaker)
				if synthErr != nil {
					return synthErr
				}
				results[i] = audio
				return nil
			}, isTransient)
			if err != nil {
				e.logger.Error().Err(err).Int("chunk", i+1).Int("total", len(chunks)).Msg("chunk synthesis failed")
				errs[i] = err
				cancel()
			}
		}(i, chunk)
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		return nil, err
	}

	var audio []byte
	for i := range chunks {
		audio = append(audio, results[i]...)
	}

	return audio, nil
}

// firstError picks the failure to report. Sibling chunks canceled after the
// root failure would otherwise mask it with a context error.
func firstError(errs []error) error {
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if fallback == nil {
			fallback = err
		}
	}
	return fallback
}

// isTransient reports whether a synthesis failure is worth retrying. Only
// transport failures qualify; upstream and decode failures are stable and
// would fail again.
func isTransient(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}
