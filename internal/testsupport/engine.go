package testsupport

import (
	"context"
	"sync"

	"captiongen/internal/engine"
	"captiongen/internal/transcript"
)

// StubLoader is an engine.Loader that returns canned results and records calls.
type StubLoader struct {
	LoadErr       error
	TranscribeErr error
	Transcript    *transcript.Transcript
	// Block makes Transcribe wait for its context to end and return ctx.Err().
	Block bool

	mu          sync.Mutex
	loads       []string
	transcribed []string
	options     []engine.Options
}

// Load records the model name and fails with LoadErr when set.
func (s *StubLoader) Load(_ context.Context, model string) (engine.Model, error) {
	s.mu.Lock()
	s.loads = append(s.loads, model)
	s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return &stubModel{loader: s, name: model}, nil
}

// Loads returns the model names passed to Load.
func (s *StubLoader) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

// Transcribed returns the sources passed to Transcribe.
func (s *StubLoader) Transcribed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.transcribed...)
}

// Options returns the options of every Transcribe call.
func (s *StubLoader) Options() []engine.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Options(nil), s.options...)
}

type stubModel struct {
	loader *StubLoader
	name   string
}

func (m *stubModel) Name() string { return m.name }

func (m *stubModel) Transcribe(ctx context.Context, source string, opts engine.Options) (*transcript.Transcript, error) {
	s := m.loader
	s.mu.Lock()
	s.transcribed = append(s.transcribed, source)
	s.options = append(s.options, opts)
	s.mu.Unlock()
	if s.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.TranscribeErr != nil {
		return nil, s.TranscribeErr
	}
	if s.Transcript != nil {
		return s.Transcript, nil
	}
	return SampleTranscript(), nil
}

// SampleTranscript returns a two segment English transcript with word timings.
func SampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Language: "en",
		Segments: []transcript.Segment{
			{
				Start: 0.5, End: 2.0, Text: "Hello there.",
				Words: []transcript.Word{
					{Text: "Hello", Start: 0.5, End: 1.0},
					{Text: " there.", Start: 1.1, End: 2.0},
				},
			},
			{Start: 2.5, End: 4.25, Text: "General Kenobi."},
		},
	}
}
