package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Compose builds a prompt by combining tunable instructions, the immutable
// response specification, and the serialized items to classify.
func Compose(ctx context.Context, ps System, stage Stage, items any) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize items: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nItems:\n\n")
	sb.Write(payload)

	return sb.String(), nil
}
