package correct

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/index"
)

const (
	// DefaultAcceptThreshold is the minimum fused score for a replacement.
	DefaultAcceptThreshold = 0.75
	// DefaultMargin is the minimum lead over the second-best candidate.
	DefaultMargin = 0.10
)

// Correction is one audit record: a span that was replaced, the term it
// was corrected to, and the fused score that justified it.
type Correction struct {
	Original    string
	Replacement string
	Term        *core.Term
	Score       float64
}

// Corrector proposes in-place term corrections for transcript windows.
// It is a pure read-side consumer of the index and never mutates storage.
type Corrector struct {
	index  *index.Index
	accept float64
	margin float64
	logger *slog.Logger
}

// Option configures a Corrector.
type Option func(*Corrector) error

// WithAcceptThreshold sets the minimum fused score for replacement.
// Default is DefaultAcceptThreshold.
func WithAcceptThreshold(threshold float64) Option {
	return func(c *Corrector) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%w: accept threshold %v", ErrInvalidThreshold, threshold)
		}
		c.accept = threshold
		return nil
	}
}

// WithMargin sets the minimum lead the top candidate must hold over the
// second best, preventing flapping between near-tied candidates.
// Default is DefaultMargin.
func WithMargin(margin float64) Option {
	return func(c *Corrector) error {
		if margin < 0 || margin > 1 {
			return fmt.Errorf("%w: margin %v", ErrInvalidThreshold, margin)
		}
		c.margin = margin
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Corrector) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a corrector reading from the given index.
func New(idx *index.Index, opts ...Option) (*Corrector, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}

	c := &Corrector{
		index:  idx,
		accept: DefaultAcceptThreshold,
		margin: DefaultMargin,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Correct processes one window of transcript tokens and returns the
// corrected window plus the audit list of replacements made.
//
// A token that exact-matches a known term or alias is never replaced.
// Any other token is replaced only when the top hybrid candidate's fused
// score reaches the acceptance threshold and leads the second-best
// candidate by at least the margin.
func (c *Corrector) Correct(ctx context.Context, window []string) ([]string, []Correction, error) {
	corrected := make([]string, len(window))
	var audit []Correction

	for i, token := range window {
		corrected[i] = token

		key := core.NormalizeKey(token)
		if utf8.RuneCountInString(key) < 2 {
			continue
		}

		exact, err := c.index.Query(ctx, key, 1, index.ModeExact)
		if err != nil {
			return nil, nil, err
		}
		if len(exact.Matches) > 0 {
			continue
		}

		result, err := c.index.Query(ctx, key, 2, index.ModeHybrid)
		if err != nil {
			return nil, nil, err
		}
		if len(result.Matches) == 0 {
			continue
		}

		top := result.Matches[0]
		if top.Score < c.accept {
			continue
		}
		if len(result.Matches) > 1 && top.Score-result.Matches[1].Score < c.margin {
			c.logger.Debug("correction suppressed by margin",
				"token", token,
				"top", top.Term.Name,
				"topScore", top.Score,
				"runnerUp", result.Matches[1].Term.Name,
				"runnerUpScore", result.Matches[1].Score)
			continue
		}

		corrected[i] = top.Term.Name
		audit = append(audit, Correction{
			Original:    token,
			Replacement: top.Term.Name,
			Term:        top.Term,
			Score:       top.Score,
		})
		c.logger.Debug("token corrected", "original", token, "replacement", top.Term.Name, "score", top.Score)
	}

	return corrected, audit, nil
}
