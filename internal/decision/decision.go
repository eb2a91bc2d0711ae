// Package decision maps a scored submission to an underwriting recommendation.
package decision

import (
	"fmt"

	"github.com/resure-ai/resure/internal/config"
	"github.com/resure-ai/resure/internal/features"
	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/risk"
)

// Reasons attached to each action.
const (
	ReasonInsufficientData = "Insufficient data for underwriting assessment"
	ReasonAccept           = "Risk profile within standard appetite"
	ReasonConditions       = "Moderate risk acceptable with pricing loading and conditions"
	ReasonRefer            = "Elevated risk requires senior underwriter review"
	ReasonDecline          = "Risk profile outside underwriting appetite"
)

// fractionCeiling is the largest claim ratio read as a fraction rather than
// a percentage.
const fractionCeiling = 1.5

// Input holds the decision inputs. Completeness and ClaimRatio are
// percentages; RiskScore is on the 0-10 scale.
type Input struct {
	RiskScore    float64
	Completeness float64
	ClaimRatio   float64
	LossTrend    string

	// Missing lists the critical fields reported back when more data is needed.
	Missing []string
}

// Engine applies the decision rules with a fixed set of thresholds.
type Engine struct {
	cfg config.DecisionConfig
}

// New creates an Engine. Thresholds are not validated here; see
// config.ValidateDecisionConfig.
func New(cfg config.DecisionConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Default creates an Engine with the standard thresholds.
func Default() *Engine {
	return New(config.DefaultDecisionConfig())
}

// Decide evaluates the rules in order; the first match wins. It always
// returns a decision.
func (e *Engine) Decide(in Input) model.Decision {
	c := e.cfg
	d := model.Decision{
		UnderwriterNotes:    []string{},
		RequiredInformation: []string{},
	}

	switch {
	case in.Completeness < c.RequestInfoBelow:
		d.RecommendedAction = model.ActionRequestInfo
		d.DecisionReason = ReasonInsufficientData
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			fmt.Sprintf("Data completeness %.0f%% is below the %.0f%% minimum", in.Completeness, c.RequestInfoBelow))
		d.RequiredInformation = append(d.RequiredInformation, in.Missing...)
	case in.RiskScore <= c.AcceptAtOrBelow:
		d.RecommendedAction = model.ActionAccept
		d.DecisionReason = ReasonAccept
		d.UnderwriterNotes = append(d.UnderwriterNotes, "Standard terms apply")
	case in.RiskScore <= c.ConditionsAtOrBelow:
		d.RecommendedAction = model.ActionConditions
		d.DecisionReason = ReasonConditions
		d.PricingAdjustment = c.ConditionsAdjustment
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			fmt.Sprintf("Apply %.0f%% premium loading", c.ConditionsAdjustment))
	case in.RiskScore <= c.ReferAtOrBelow:
		d.RecommendedAction = model.ActionRefer
		d.DecisionReason = ReasonRefer
		d.PricingAdjustment = c.ReferAdjustment
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			fmt.Sprintf("Indicative %.0f%% premium loading pending referral", c.ReferAdjustment))
	default:
		d.RecommendedAction = model.ActionDecline
		d.DecisionReason = ReasonDecline
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			fmt.Sprintf("Risk score %.2f exceeds referral limit %.0f", in.RiskScore, c.ReferAtOrBelow))
	}

	if in.ClaimRatio > c.ClaimRatioWarning {
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			fmt.Sprintf("Claims history warning: claim ratio %.1f%% exceeds %.0f%%", in.ClaimRatio, c.ClaimRatioWarning))
	}
	if in.LossTrend == features.TrendIncreasing {
		d.UnderwriterNotes = append(d.UnderwriterNotes,
			"Loss trend warning: losses are increasing year over year")
	}
	return d
}

// ForRecord decides on one normalized record. A record that has not been
// through the pipeline gets its completeness and loss trend computed here
// and a neutral risk score.
func (e *Engine) ForRecord(rec model.Record) model.Decision {
	return e.Decide(InputOf(rec))
}

// InputOf reads the decision inputs from a record.
func InputOf(rec model.Record) Input {
	in := Input{
		RiskScore: rec.Get(model.FieldNormalizedRiskScore).FloatOr(risk.NeutralScore),
		Missing:   Missing(rec),
	}

	if v, ok := rec.Get(model.FieldDataCompleteness).Float(); ok {
		in.Completeness = v * 100
	} else {
		in.Completeness = features.Completeness(rec) * 100
	}

	in.ClaimRatio = ClaimRatioPercent(rec.Get(model.FieldClaimRatio).FloatOr(0))

	if v := rec.Get(model.FieldLossTrend); v.Kind == model.KindString {
		in.LossTrend = v.Str
	} else {
		events, _ := model.ParseLossHistory(rec.Get(model.FieldLossHistory))
		in.LossTrend = features.LossTrend(events)
	}
	return in
}

// ClaimRatioPercent reads claim ratios up to 1.5 as fractions and scales
// them to percentages. Larger values are already percentages.
func ClaimRatioPercent(v float64) float64 {
	if v <= fractionCeiling {
		return v * 100
	}
	return v
}

// Missing lists the completeness fields a record lacks, in field order.
func Missing(rec model.Record) []string {
	out := []string{}
	for _, f := range model.CompletenessFields {
		if !features.Populated(rec.Get(f)) {
			out = append(out, f)
		}
	}
	return out
}

// ForTable decides on every row of a scored table.
func (e *Engine) ForTable(t *model.Table) []model.Decision {
	out := make([]model.Decision, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = e.ForRecord(r)
	}
	return out
}
