// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteEnrich prints the enriched records and encodings of a snapshot.
func (ow *OutWriter) WriteEnrich(snap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return PrintEnrichResults(snap, cfg, duration)
}

// WriteSegment prints the cluster model, profiles and assignments.
func (ow *OutWriter) WriteSegment(res schema.SegmentResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSegmentResults(res, cfg, duration)
}

// WritePersona prints one persona card, or the empty-state message.
func (ow *OutWriter) WritePersona(match schema.PersonaMatch, cfg *contract.Config, duration time.Duration) error {
	return PrintPersonaResults(match, cfg, duration)
}

// WriteChurn prints the churn summary and high-risk records.
func (ow *OutWriter) WriteChurn(res schema.ChurnResult, flagged []schema.ChurnRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintChurnResults(res, flagged, cfg, duration)
}

// WriteRecommendation prints the recommendations for a filtered subset.
func (ow *OutWriter) WriteRecommendation(res schema.RecommendationResult, cfg *contract.Config, duration time.Duration) error {
	return PrintRecommendationResults(res, cfg, duration)
}

// WriteDescribe prints the exploratory insights of a snapshot.
func (ow *OutWriter) WriteDescribe(res schema.DescribeResult, cfg *contract.Config, duration time.Duration) error {
	return PrintDescribeResults(res, cfg, duration)
}

// WriteRules prints the rule catalogue.
func (ow *OutWriter) WriteRules(model schema.RulesRenderModel, cfg *contract.Config) error {
	return PrintRulesCatalogue(model, cfg)
}

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// maxTextWidth bounds free-text table columns such as device models and recommendations.
// fixed is the width taken by the other columns, borders included.
func maxTextWidth(cfg *contract.Config, fixed int) int {
	available := terminalWidth(cfg) - fixed
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
