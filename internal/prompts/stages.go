package prompts

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Stage names a classifier call whose instructions can be overridden.
type Stage string

const (
	StageClassify Stage = "classify"
)

// stageDef pairs a stage with its default instructions and fixed response format.
type stageDef struct {
	stage        Stage
	instructions string
	spec         string
}

var defs = []stageDef{
	{stage: StageClassify, instructions: classifyInstructions, spec: classifySpec},
}

// Stages returns the known stages in declaration order.
func Stages() []Stage {
	out := make([]Stage, len(defs))
	for i, d := range defs {
		out[i] = d.stage
	}
	return out
}

// ParseStage returns ErrInvalidStage for names outside Stages.
func ParseStage(s string) (Stage, error) {
	if _, ok := lookup(Stage(s)); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return Stage(s), nil
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Instructions returns the default instructions of stage.
func Instructions(stage Stage) (string, error) {
	d, ok := lookup(stage)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	return d.instructions, nil
}

// Spec returns the response format of stage. It cannot be overridden: the
// classifier client parses replies against it.
func Spec(stage Stage) (string, error) {
	d, ok := lookup(stage)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	return d.spec, nil
}

func lookup(stage Stage) (stageDef, bool) {
	for _, d := range defs {
		if d.stage == stage {
			return d, true
		}
	}
	return stageDef{}, false
}

const classifyInstructions = `You are a data governance analyst classifying database fields for a data classification and grading inventory.

Each item you receive carries a numeric mappingId and the business description of one field. Field names and table names are withheld; classify from the description alone.

For each item, assign:
- A four-level category path (level1 through level4), from the broadest data domain (e.g., 业务数据) down to the most specific category (e.g., 个人银行卡信息).
- A sensitivity tier reflecting the harm of disclosure: public, low, medium, or high.
- A short reason citing what in the description drove the decision.

Items describing personal identity, payment cards, account credentials, or individual financial activity are at least medium. Aggregated or organization-level attributes are usually low. Use public only for information intended for open disclosure.`

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "verdicts": [
    {
      "mappingId": 1,
      "level1": "<category>",
      "level2": "<category>",
      "level3": "<category>",
      "level4": "<category>",
      "sensitivityClassification": "<public|low|medium|high>",
      "classificationReason": "<explanation>",
      "confidence": 0.0
    }
  ]
}

Field constraints:
- mappingId: Copied unchanged from the input item. Never invent ids.
- level1 through level4: Non-empty category names, broadest first.
- sensitivityClassification: Exactly one of public, low, medium, high.
- classificationReason: One or two sentences.
- confidence: Number between 0 and 1.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Return exactly one verdict per input item
- Verdicts may be in any order; mappingId is the only correlation key
- When an item cannot be classified, return it with an "error" string
  instead of categories`
