package loop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

// fakeStore is an in-memory VersionStore.
type fakeStore struct {
	records     map[int]*story.VersionRecord
	generations []story.GenerationEntry
	saveErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int]*story.VersionRecord)}
}

func (s *fakeStore) Save(_ context.Context, rec *story.VersionRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	clone := *rec
	s.records[rec.Version] = &clone
	return nil
}

func (s *fakeStore) NextVersion(_ context.Context) (int, error) {
	max := 0
	for v := range s.records {
		if v > max {
			max = v
		}
	}
	return max + 1, nil
}

func (s *fakeStore) ListVersions(_ context.Context) ([]story.VersionContent, error) {
	var out []story.VersionContent
	for _, rec := range s.records {
		out = append(out, story.VersionContent{Version: rec.Version, Content: rec.Content})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *fakeStore) ListFeedback(_ context.Context) ([]story.FeedbackEntry, error) {
	var out []story.FeedbackEntry
	for _, rec := range s.records {
		if rec.Feedback != nil {
			out = append(out, story.FeedbackEntry{Version: rec.Version, Feedback: *rec.Feedback})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *fakeStore) LogGeneration(_ context.Context, e story.GenerationEntry) error {
	s.generations = append(s.generations, e)
	return nil
}

// fakeGenerator returns scripted outputs in order, or a fixed error.
type fakeGenerator struct {
	outputs []string
	err     error
	calls   int
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	if g.calls > len(g.outputs) {
		return "", fmt.Errorf("fake generator exhausted after %d calls", g.calls)
	}
	return g.outputs[g.calls-1], nil
}

// fakeInteractor replays scripted answers.
type fakeInteractor struct {
	wantsFeedback []bool
	feedback      []string
	ratings       []int
	satisfied     []bool

	presented []int
	reports   []string

	wantsIdx, feedbackIdx, ratingIdx, satisfiedIdx int
}

func (i *fakeInteractor) Present(version int, _ string) {
	i.presented = append(i.presented, version)
}

func (i *fakeInteractor) WantsFeedback() (bool, error) {
	if i.wantsIdx >= len(i.wantsFeedback) {
		return false, errors.New("unexpected WantsFeedback call")
	}
	v := i.wantsFeedback[i.wantsIdx]
	i.wantsIdx++
	return v, nil
}

func (i *fakeInteractor) ReadFeedback() (string, error) {
	if i.feedbackIdx >= len(i.feedback) {
		return "", errors.New("unexpected ReadFeedback call")
	}
	v := i.feedback[i.feedbackIdx]
	i.feedbackIdx++
	return v, nil
}

func (i *fakeInteractor) ReadRating() (int, error) {
	if i.ratingIdx >= len(i.ratings) {
		return 0, errors.New("unexpected ReadRating call")
	}
	v := i.ratings[i.ratingIdx]
	i.ratingIdx++
	return v, nil
}

func (i *fakeInteractor) IsSatisfied() (bool, error) {
	if i.satisfiedIdx >= len(i.satisfied) {
		return false, errors.New("unexpected IsSatisfied call")
	}
	v := i.satisfied[i.satisfiedIdx]
	i.satisfiedIdx++
	return v, nil
}

func (i *fakeInteractor) ShowReport(report string) {
	i.reports = append(i.reports, report)
}

var testPrefs = story.Preferences{
	Theme:    "AI",
	Genre:    "short story",
	Tone:     "optimistic",
	Elements: []string{"robot", "friendship"},
	Language: "en",
}

func newController(s VersionStore, g *fakeGenerator, ui *fakeInteractor) *Controller {
	return New(Config{
		Store:       s,
		Generator:   g,
		Interactor:  ui,
		Preferences: testPrefs,
		Log:         zerolog.Nop(),
	})
}

func TestController_DeclinedFeedbackEndsLoop(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{"Version one of the story."}}
	ui := &fakeInteractor{wantsFeedback: []bool{false}}

	c := newController(s, g, ui)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if c.State() != StateDone {
		t.Errorf("expected Done, got %s", c.State())
	}
	if len(s.records) != 1 {
		t.Fatalf("expected 1 version, got %d", len(s.records))
	}
	v1 := s.records[1]
	if v1.Feedback != nil || v1.Rating != nil {
		t.Errorf("version 1 must have nil feedback/rating, got %+v", v1)
	}
	if len(ui.presented) != 1 || ui.presented[0] != 1 {
		t.Errorf("expected version 1 presented once, got %v", ui.presented)
	}
}

func TestController_EndToEndRefinement(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{
		"Once there was a cheerful robot who found friendship.",
		"Once there was a lonely robot who lost its only friend.",
	}}
	ui := &fakeInteractor{
		wantsFeedback: []bool{true},
		feedback:      []string{"make it sadder"},
		ratings:       []int{2},
		satisfied:     []bool{true},
	}

	c := newController(s, g, ui)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(s.records) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(s.records))
	}

	v2 := s.records[2]
	if v2.Feedback == nil || *v2.Feedback != "make it sadder" {
		t.Errorf("version 2 feedback: %v", v2.Feedback)
	}
	if v2.Rating == nil || *v2.Rating != 2 {
		t.Errorf("version 2 rating: %v", v2.Rating)
	}
	if !strings.Contains(v2.Prompt, "make it sadder") {
		t.Error("revision prompt must embed the feedback")
	}
	if !strings.Contains(v2.Prompt, s.records[1].Content) {
		t.Error("revision prompt must embed the prior content")
	}

	if len(ui.reports) != 1 {
		t.Fatalf("expected 1 metrics report, got %d", len(ui.reports))
	}
	report := ui.reports[0]
	if !strings.Contains(report, "2 version(s)") {
		t.Errorf("report missing version count:\n%s", report)
	}
	if !strings.Contains(report, "make it sadder") {
		t.Errorf("report missing feedback history:\n%s", report)
	}

	if len(s.generations) != 2 {
		t.Errorf("expected 2 generation log entries, got %d", len(s.generations))
	}
}

func TestController_RejectsOutOfRangeRatings(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{"First version.", "Second version."}}
	ui := &fakeInteractor{
		wantsFeedback: []bool{true},
		feedback:      []string{"more detail"},
		ratings:       []int{0, 6, 4}, // first two must be rejected and re-asked
		satisfied:     []bool{true},
	}

	c := newController(s, g, ui)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ui.ratingIdx != 3 {
		t.Errorf("expected 3 rating prompts, got %d", ui.ratingIdx)
	}
	if v2 := s.records[2]; v2.Rating == nil || *v2.Rating != 4 {
		t.Errorf("expected rating 4 persisted, got %v", v2.Rating)
	}
}

func TestController_ReAsksBlankFeedback(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{"First version.", "Second version."}}
	ui := &fakeInteractor{
		wantsFeedback: []bool{true},
		feedback:      []string{"   ", "add a twist"},
		ratings:       []int{3},
		satisfied:     []bool{true},
	}

	c := newController(s, g, ui)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if v2 := s.records[2]; v2.Feedback == nil || *v2.Feedback != "add a twist" {
		t.Errorf("expected trimmed feedback 'add a twist', got %v", v2.Feedback)
	}
}

func TestController_NotSatisfiedLoopsAgain(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{"v1 text here.", "v2 text here.", "v3 text here."}}
	ui := &fakeInteractor{
		wantsFeedback: []bool{true, true},
		feedback:      []string{"sadder", "even sadder"},
		ratings:       []int{2, 3},
		satisfied:     []bool{false, true},
	}

	c := newController(s, g, ui)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(s.records) != 3 {
		t.Errorf("expected 3 versions, got %d", len(s.records))
	}
	if c.State() != StateDone {
		t.Errorf("expected Done, got %s", c.State())
	}
}

func TestController_GeneratorFailureOnDraft(t *testing.T) {
	s := newFakeStore()
	genErr := &story.GenerationError{Provider: "fake", Err: errors.New("boom")}
	g := &fakeGenerator{err: genErr}
	ui := &fakeInteractor{}

	c := newController(s, g, ui)
	err := c.Run(context.Background())

	var wantErr *story.GenerationError
	if !errors.As(err, &wantErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(s.records) != 0 {
		t.Errorf("no version may be persisted on generation failure, got %d", len(s.records))
	}
	if next, _ := s.NextVersion(context.Background()); next != 1 {
		t.Errorf("version counter advanced to %d on failure", next)
	}
	if c.State() != StateDrafting {
		t.Errorf("expected to remain in Drafting for retry, got %s", c.State())
	}
	// The failed attempt is still logged.
	if len(s.generations) != 1 || s.generations[0].Error == "" {
		t.Errorf("expected 1 failed generation log entry, got %+v", s.generations)
	}
}

func TestController_GeneratorFailureOnRegenerate(t *testing.T) {
	s := newFakeStore()
	g := &fakeGenerator{outputs: []string{"First version only."}}
	ui := &fakeInteractor{
		wantsFeedback: []bool{true},
		feedback:      []string{"sadder"},
		ratings:       []int{2},
	}

	c := newController(s, g, ui)
	err := c.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from exhausted generator")
	}

	if len(s.records) != 1 {
		t.Errorf("expected only version 1 persisted, got %d", len(s.records))
	}
	if c.State() != StateAwaitingFeedback {
		t.Errorf("expected AwaitingFeedback after failed regeneration, got %s", c.State())
	}
}
