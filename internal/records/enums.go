package records

import (
	"cmp"
	"strings"
)

// Sensitivity is the tier of a classified field.
type Sensitivity string

// Sensitivity tiers in ascending severity.
const (
	SensitivityPublic Sensitivity = "public"
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

var sensitivityRank = map[Sensitivity]int{
	SensitivityPublic: 1,
	SensitivityLow:    2,
	SensitivityMedium: 3,
	SensitivityHigh:   4,
}

var sensitivityAliases = map[string]Sensitivity{
	"public":    SensitivityPublic,
	"公开":        SensitivityPublic,
	"none":      SensitivityPublic,
	"low":       SensitivityLow,
	"低":         SensitivityLow,
	"低敏感":       SensitivityLow,
	"medium":    SensitivityMedium,
	"moderate":  SensitivityMedium,
	"中":         SensitivityMedium,
	"中敏感":       SensitivityMedium,
	"中等敏感":      SensitivityMedium,
	"high":      SensitivityHigh,
	"高":         SensitivityHigh,
	"高敏感":       SensitivityHigh,
	"sensitive": SensitivityHigh,
}

var sensitivityLabelsZH = map[Sensitivity]string{
	SensitivityPublic: "公开",
	SensitivityLow:    "低敏感",
	SensitivityMedium: "中等敏感",
	SensitivityHigh:   "高敏感",
}

// Sensitivities returns the tiers in ascending severity.
func Sensitivities() []Sensitivity {
	return []Sensitivity{SensitivityPublic, SensitivityLow, SensitivityMedium, SensitivityHigh}
}

// ParseSensitivity resolves a tier from its canonical name or a known label,
// e.g. "High", "high sensitivity", or "高敏感".
func ParseSensitivity(s string) (Sensitivity, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSpace(strings.TrimSuffix(key, "sensitivity"))
	v, ok := sensitivityAliases[key]
	return v, ok
}

// NormalizeSensitivity returns the canonical tier for s, or s unchanged
// when it is not a recognized label.
func NormalizeSensitivity(s string) Sensitivity {
	if v, ok := ParseSensitivity(s); ok {
		return v
	}
	return Sensitivity(strings.TrimSpace(s))
}

// Rank returns the severity rank, 1 (public) through 4 (high).
// Unrecognized labels rank 0.
func (s Sensitivity) Rank() int {
	if r, ok := sensitivityRank[s]; ok {
		return r
	}
	if v, ok := ParseSensitivity(string(s)); ok {
		return sensitivityRank[v]
	}
	return 0
}

// Valid reports whether s is a canonical tier.
func (s Sensitivity) Valid() bool {
	_, ok := sensitivityRank[s]
	return ok
}

// LabelZH returns the Chinese display label, or s itself for unknown tiers.
func (s Sensitivity) LabelZH() string {
	if l, ok := sensitivityLabelsZH[NormalizeSensitivity(string(s))]; ok {
		return l
	}
	return string(s)
}

// CompareSensitivity orders sensitivity labels by tier severity.
// Labels of the same tier compare equal regardless of spelling;
// unrecognized labels sort before public and among themselves lexicographically.
func CompareSensitivity(a, b string) int {
	ra, rb := Sensitivity(a).Rank(), Sensitivity(b).Rank()
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	if ra == 0 {
		return cmp.Compare(a, b)
	}
	return 0
}

// TaggingMethod records how a classification was produced.
type TaggingMethod string

const (
	TaggingManual    TaggingMethod = "manual"
	TaggingAutomated TaggingMethod = "automated"
)

var taggingAliases = map[string]TaggingMethod{
	"manual":    TaggingManual,
	"人工":        TaggingManual,
	"人工打标":      TaggingManual,
	"人工分类":      TaggingManual,
	"automated": TaggingAutomated,
	"automatic": TaggingAutomated,
	"auto":      TaggingAutomated,
	"ai":        TaggingAutomated,
	"ai自动分类":    TaggingAutomated,
	"系统分类":      TaggingAutomated,
	"自动":        TaggingAutomated,
}

var taggingLabelsZH = map[TaggingMethod]string{
	TaggingManual:    "人工打标",
	TaggingAutomated: "AI自动分类",
}

// ParseTaggingMethod resolves a tagging method from its canonical name or a known label.
func ParseTaggingMethod(s string) (TaggingMethod, bool) {
	v, ok := taggingAliases[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// NormalizeTaggingMethod returns the canonical method for s, or s unchanged
// when it is not a recognized label.
func NormalizeTaggingMethod(s string) TaggingMethod {
	if v, ok := ParseTaggingMethod(s); ok {
		return v
	}
	return TaggingMethod(strings.TrimSpace(s))
}

// LabelZH returns the Chinese display label, or m itself for unknown methods.
func (m TaggingMethod) LabelZH() string {
	if l, ok := taggingLabelsZH[m]; ok {
		return l
	}
	return string(m)
}
