package prompts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// System defines the public contract for prompt domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Prompt, error)
	Find(ctx context.Context, stage Stage) (*Prompt, error)
	Instructions(ctx context.Context, stage Stage) (string, error)
	Spec(ctx context.Context, stage Stage) (string, error)
	Override(ctx context.Context, stage Stage, cmd OverrideCommand) (*Prompt, error)
	Reset(ctx context.Context, stage Stage) error
}

type override struct {
	text      string
	updatedAt time.Time
}

type store struct {
	mu        sync.RWMutex
	overrides map[Stage]override
	logger    *slog.Logger
}

// New creates an in-memory prompt system. Overrides live for the life of
// the process; stages without one fall back to the default instructions.
func New(logger *slog.Logger) System {
	return &store{
		overrides: make(map[Stage]override),
		logger:    logger.With("system", "prompts"),
	}
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *store) List(ctx context.Context) ([]Prompt, error) {
	stages := Stages()
	out := make([]Prompt, 0, len(stages))
	for _, stage := range stages {
		p, err := s.Find(ctx, stage)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *store) Find(ctx context.Context, stage Stage) (*Prompt, error) {
	s.mu.RLock()
	o, ok := s.overrides[stage]
	s.mu.RUnlock()

	if ok {
		at := o.updatedAt
		return &Prompt{Stage: stage, Instructions: o.text, Override: true, UpdatedAt: &at}, nil
	}

	text, err := Instructions(stage)
	if err != nil {
		return nil, err
	}
	return &Prompt{Stage: stage, Instructions: text}, nil
}

func (s *store) Instructions(ctx context.Context, stage Stage) (string, error) {
	p, err := s.Find(ctx, stage)
	if err != nil {
		return "", err
	}
	return p.Instructions, nil
}

func (s *store) Spec(ctx context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (s *store) Override(ctx context.Context, stage Stage, cmd OverrideCommand) (*Prompt, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(cmd.Instructions)
	if text == "" {
		return nil, ErrEmptyInstructions
	}
	if len(text) > MaxInstructions {
		return nil, fmt.Errorf("%w: %d bytes", ErrInstructionsTooBig, len(text))
	}

	now := time.Now().UTC()

	s.mu.Lock()
	s.overrides[stage] = override{text: text, updatedAt: now}
	s.mu.Unlock()

	s.logger.Info("prompt override set", "stage", stage, "bytes", len(text))
	return &Prompt{Stage: stage, Instructions: text, Override: true, UpdatedAt: &now}, nil
}

func (s *store) Reset(ctx context.Context, stage Stage) error {
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.overrides, stage)
	s.mu.Unlock()

	s.logger.Info("prompt override cleared", "stage", stage)
	return nil
}
