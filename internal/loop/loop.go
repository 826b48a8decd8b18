// Package loop drives the refinement session as an explicit state machine:
//
//	Drafting → AwaitingFeedback → Regenerating → (AwaitingFeedback | Done)
//
// The controller owns no I/O of its own; the content generator, version
// store, and reader interaction are injected collaborators so each
// transition is testable with fakes.
package loop

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/amplerelife/ai-story-tool/internal/generator"
	"github.com/amplerelife/ai-story-tool/internal/history"
	"github.com/amplerelife/ai-story-tool/internal/langcheck"
	"github.com/amplerelife/ai-story-tool/internal/prompt"
	"github.com/amplerelife/ai-story-tool/internal/story"
)

// State names a position in the refinement state machine.
type State string

const (
	StateDrafting         State = "drafting"
	StateAwaitingFeedback State = "awaiting_feedback"
	StateRegenerating     State = "regenerating"
	StateDone             State = "done"
)

// VersionStore is the subset of the store the controller needs.
type VersionStore interface {
	Save(ctx context.Context, rec *story.VersionRecord) error
	NextVersion(ctx context.Context) (int, error)
	ListVersions(ctx context.Context) ([]story.VersionContent, error)
	ListFeedback(ctx context.Context) ([]story.FeedbackEntry, error)
	LogGeneration(ctx context.Context, e story.GenerationEntry) error
}

// Interactor collects the reader's reactions to each version. Implementations
// may return an error to abort the session (e.g. closed input).
type Interactor interface {
	// Present shows a freshly generated version to the reader.
	Present(version int, content string)
	// WantsFeedback asks whether the reader wants to give feedback.
	WantsFeedback() (bool, error)
	// ReadFeedback reads one line of free-text feedback.
	ReadFeedback() (string, error)
	// ReadRating reads an integer rating; the controller re-asks until the
	// value is in [1,5].
	ReadRating() (int, error)
	// IsSatisfied asks, after a regeneration, whether the reader is done.
	IsSatisfied() (bool, error)
	// ShowReport displays the rendered version-change metrics.
	ShowReport(report string)
}

// Config wires the controller's collaborators.
type Config struct {
	Store       VersionStore
	Generator   generator.Generator
	Interactor  Interactor
	Checker     *langcheck.Checker // optional; nil skips language validation
	Preferences story.Preferences
	Log         zerolog.Logger
}

// Controller runs one refinement session.
type Controller struct {
	store   VersionStore
	gen     generator.Generator
	ui      Interactor
	checker *langcheck.Checker
	prefs   story.Preferences
	log     zerolog.Logger

	state   State
	current *story.VersionRecord

	// Captured in AwaitingFeedback, consumed in Regenerating.
	pendingFeedback string
	pendingRating   int
}

func New(cfg Config) *Controller {
	return &Controller{
		store:   cfg.Store,
		gen:     cfg.Generator,
		ui:      cfg.Interactor,
		checker: cfg.Checker,
		prefs:   cfg.Preferences,
		log:     cfg.Log,
		state:   StateDrafting,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Current returns the most recently persisted version, nil before drafting.
func (c *Controller) Current() *story.VersionRecord {
	return c.current
}

// Run drives the machine until Done or the first unrecoverable error.
// Generation and storage failures abort only the transition in flight: no
// version row is written, the counter does not advance, and the machine is
// left in a re-enterable state so a later Run can resume the session.
func (c *Controller) Run(ctx context.Context) error {
	for c.state != StateDone {
		var err error
		switch c.state {
		case StateDrafting:
			err = c.draft(ctx)
		case StateAwaitingFeedback:
			err = c.awaitFeedback()
		case StateRegenerating:
			err = c.regenerate(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// draft generates and persists the first version of the chain.
func (c *Controller) draft(ctx context.Context) error {
	version, err := c.store.NextVersion(ctx)
	if err != nil {
		return err
	}

	userPrompt := prompt.Initial(c.prefs)
	content, err := c.generate(ctx, version, userPrompt)
	if err != nil {
		// Stay in Drafting: a later Run retries the first draft.
		return err
	}

	rec := c.newRecord(version, userPrompt, content)
	if err := c.store.Save(ctx, rec); err != nil {
		return err
	}

	c.current = rec
	c.checkLanguage(content)
	c.log.Info().Int("version", version).Msg("drafted initial version")
	c.ui.Present(version, content)
	c.state = StateAwaitingFeedback
	return nil
}

// awaitFeedback asks whether the reader wants another iteration and, if so,
// collects the feedback and rating that will drive it.
func (c *Controller) awaitFeedback() error {
	wants, err := c.ui.WantsFeedback()
	if err != nil {
		return err
	}
	if !wants {
		c.state = StateDone
		return nil
	}

	feedback, err := c.collectFeedback()
	if err != nil {
		return err
	}
	rating, err := c.collectRating()
	if err != nil {
		return err
	}

	c.pendingFeedback = feedback
	c.pendingRating = rating
	c.state = StateRegenerating
	return nil
}

// regenerate produces the next version from the pending feedback, surfaces
// the version-change metrics, and asks whether the reader is satisfied.
func (c *Controller) regenerate(ctx context.Context) error {
	version, err := c.store.NextVersion(ctx)
	if err != nil {
		return err
	}

	userPrompt := prompt.Revision(c.prefs, c.current.Content, c.pendingFeedback, c.pendingRating)
	content, err := c.generate(ctx, version, userPrompt)
	if err != nil {
		c.state = StateAwaitingFeedback
		return err
	}

	rec := c.newRecord(version, userPrompt, content)
	feedback := c.pendingFeedback
	rating := c.pendingRating
	rec.Feedback = &feedback
	rec.Rating = &rating

	if err := c.store.Save(ctx, rec); err != nil {
		c.state = StateAwaitingFeedback
		return err
	}

	c.current = rec
	c.checkLanguage(content)
	c.log.Info().Int("version", version).Int("rating", rating).Msg("regenerated version")
	c.ui.Present(version, content)

	c.showMetrics(ctx)

	satisfied, err := c.ui.IsSatisfied()
	if err != nil {
		return err
	}
	if satisfied {
		c.state = StateDone
	} else {
		c.state = StateAwaitingFeedback
	}
	return nil
}

// generate invokes the content generator and logs the attempt, success or
// not. The log write is best-effort: a failed log never fails the session.
func (c *Controller) generate(ctx context.Context, version int, userPrompt string) (string, error) {
	start := time.Now()
	content, err := c.gen.Generate(ctx, prompt.SystemInstruction, userPrompt)

	entry := story.GenerationEntry{
		Version:   version,
		Provider:  c.gen.Name(),
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if m, ok := c.gen.(interface{ Model() string }); ok {
		entry.Model = m.Model()
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if logErr := c.store.LogGeneration(ctx, entry); logErr != nil {
		c.log.Warn().Err(logErr).Msg("failed to log generation")
	}

	return content, err
}

// showMetrics reads the chain back from the store and renders the analysis.
// Scoring reads persisted rows, never in-memory state that could diverge.
func (c *Controller) showMetrics(ctx context.Context) {
	versions, err := c.store.ListVersions(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to list versions for analysis")
		return
	}
	feedback, err := c.store.ListFeedback(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to list feedback for analysis")
		return
	}
	c.ui.ShowReport(RenderReport(history.Analyze(versions, feedback)))
}

// collectFeedback re-asks until the reader supplies non-blank feedback.
func (c *Controller) collectFeedback() (string, error) {
	for {
		feedback, err := c.ui.ReadFeedback()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(feedback) != "" {
			return strings.TrimSpace(feedback), nil
		}
	}
}

// collectRating re-asks until the value is in [1,5]. Out-of-range values are
// rejected, never clamped.
func (c *Controller) collectRating() (int, error) {
	for {
		rating, err := c.ui.ReadRating()
		if err != nil {
			return 0, err
		}
		if story.ValidRating(rating) {
			return rating, nil
		}
		c.log.Debug().Int("rating", rating).Msg("rejected out-of-range rating")
	}
}

func (c *Controller) checkLanguage(content string) {
	if c.checker == nil {
		return
	}
	if err := c.checker.Check(content, c.prefs.Language); err != nil {
		c.log.Warn().Err(err).Msg("generated content may be in the wrong language")
	}
}

func (c *Controller) newRecord(version int, userPrompt, content string) *story.VersionRecord {
	return &story.VersionRecord{
		Version:  version,
		Theme:    c.prefs.Theme,
		Genre:    c.prefs.Genre,
		Tone:     c.prefs.Tone,
		Elements: append([]string(nil), c.prefs.Elements...),
		Prompt:   userPrompt,
		Content:  content,
	}
}
