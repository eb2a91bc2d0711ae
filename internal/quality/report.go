package quality

import (
	"sort"
	"strings"
	"time"

	"github.com/resure-ai/resure/internal/model"
)

// PipelineVersion identifies the normalization rules a report was built with.
const PipelineVersion = "2.0_enhanced"

const topLocationLimit = 10

// Recommendation messages.
const (
	RecLowCompleteness   = "CRITICAL: Low data completeness. Consider requesting additional data fields from cedants."
	RecHighRiskShare     = "WARNING: High proportion of high-risk submissions. Review underwriting criteria."
	RecNoSumInsured      = "CRITICAL: No sum insured values available. Cannot perform proper risk assessment."
	RecConcentration     = "WARNING: High geographic concentration detected. Consider diversification."
	RecLowPremiumPricing = "WARNING: Many submissions with very low premium rates. Review pricing adequacy."
)

// Report summarizes one cleaned batch.
type Report struct {
	ProcessingMetadata  Metadata            `json:"processing_metadata"`
	DataTransformations Transformations     `json:"data_transformations"`
	FeatureEngineering  FeatureSummary      `json:"feature_engineering"`
	DataQuality         QualitySummary      `json:"data_quality"`
	RiskAnalysis        RiskSummary         `json:"risk_analysis"`
	Recommendations     []string            `json:"recommendations"`
	ValidationResults   Results             `json:"validation_results"`
	Degraded            map[string]int      `json:"degraded_fields,omitempty"`
	Phases              []model.PhaseResult `json:"phases,omitempty"`
}

// Metadata describes the run that produced a report.
type Metadata struct {
	OriginalRecords     int       `json:"original_records"`
	CleanedRecords      int       `json:"cleaned_records"`
	RecordsRemoved      int       `json:"records_removed"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
	PipelineVersion     string    `json:"pipeline_version"`
}

// Transformations summarizes currency and geography normalization.
type Transformations struct {
	CurrencyConversions      map[string]float64 `json:"currency_conversions"`
	GeographyStandardization *GeographySummary  `json:"geography_standardization,omitempty"`
}

// GeographySummary counts normalized State values.
type GeographySummary struct {
	UniqueLocations int             `json:"unique_locations"`
	TopLocations    []LocationCount `json:"top_locations"`
}

// LocationCount is one entry of the location distribution.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// FeatureSummary lists the columns the pipeline added.
type FeatureSummary struct {
	NewFeaturesCreated int      `json:"new_features_created"`
	RiskScoresComputed bool     `json:"risk_scores_computed"`
	AdvancedFeatures   []string `json:"advanced_features"`
}

// QualitySummary aggregates completeness and flags.
type QualitySummary struct {
	OverallCompleteness float64        `json:"overall_completeness"`
	HighQualityRecords  int            `json:"high_quality_records"`
	RecordsWithIssues   int            `json:"records_with_issues"`
	QualityDistribution map[string]int `json:"quality_distribution"`
}

// RiskSummary aggregates normalized risk.
type RiskSummary struct {
	RiskDistribution map[string]int `json:"risk_distribution"`
	HighRiskRecords  int            `json:"high_risk_records"`
	AverageRiskScore float64        `json:"average_risk_score"`
}

// BuildReport summarizes the cleaned table against the original input.
func BuildReport(original, cleaned *model.Table, results Results, now time.Time) *Report {
	n := cleaned.Len()
	r := &Report{
		ProcessingMetadata: Metadata{
			OriginalRecords:     original.Len(),
			CleanedRecords:      n,
			RecordsRemoved:      original.Len() - n,
			ProcessingTimestamp: now,
			PipelineVersion:     PipelineVersion,
		},
		DataTransformations: Transformations{CurrencyConversions: make(map[string]float64)},
		FeatureEngineering:  FeatureSummary{RiskScoresComputed: cleaned.Has(model.FieldNormalizedRiskScore)},
		DataQuality:         QualitySummary{QualityDistribution: make(map[string]int)},
		RiskAnalysis:        RiskSummary{RiskDistribution: make(map[string]int)},
		Recommendations:     []string{},
		ValidationResults:   results,
	}

	for _, c := range []string{model.FieldSumInsured, model.FieldPastPremium} {
		if !cleaned.Has(c) {
			continue
		}
		total := 0.0
		for _, v := range cleaned.Column(c) {
			total += v.FloatOr(0)
		}
		r.DataTransformations.CurrencyConversions[c+"_total_usd"] = total
		r.DataTransformations.CurrencyConversions[c+"_mean_usd"] = mean(total, n)
	}

	if cleaned.Has(model.FieldState) {
		r.DataTransformations.GeographyStandardization = geographySummary(cleaned.Column(model.FieldState))
	}

	if cleaned.Has(model.FieldRiskCategory) {
		total := 0.0
		for _, row := range cleaned.Rows {
			r.RiskAnalysis.RiskDistribution[row.Get(model.FieldRiskCategory).Text()]++
			score := row.Get(model.FieldNormalizedRiskScore).FloatOr(0)
			if score >= 8 {
				r.RiskAnalysis.HighRiskRecords++
			}
			total += score
		}
		r.RiskAnalysis.AverageRiskScore = mean(total, n)
	}

	if cleaned.Has(model.FieldDataCompleteness) {
		total := 0.0
		for _, v := range cleaned.Column(model.FieldDataCompleteness) {
			c := v.FloatOr(0)
			total += c
			if c > 0.7 {
				r.DataQuality.HighQualityRecords++
			}
		}
		r.DataQuality.OverallCompleteness = mean(total, n)
	}

	if cleaned.Has(model.FieldQualityFlags) {
		for _, v := range cleaned.Column(model.FieldQualityFlags) {
			s := v.Text()
			if s == Clean {
				r.DataQuality.QualityDistribution[Clean]++
				continue
			}
			r.DataQuality.RecordsWithIssues++
			for _, f := range strings.Split(s, flagSeparator) {
				r.DataQuality.QualityDistribution[f]++
			}
		}
	}

	for _, c := range cleaned.Columns {
		if !original.Has(c) {
			r.FeatureEngineering.AdvancedFeatures = append(r.FeatureEngineering.AdvancedFeatures, c)
		}
	}
	r.FeatureEngineering.NewFeaturesCreated = len(r.FeatureEngineering.AdvancedFeatures)

	r.Recommendations = recommendations(r, cleaned)
	return r
}

func recommendations(r *Report, t *model.Table) []string {
	recs := []string{}
	n := t.Len()
	if n == 0 {
		return recs
	}

	if r.DataQuality.OverallCompleteness < 0.6 {
		recs = append(recs, RecLowCompleteness)
	}
	if float64(r.RiskAnalysis.HighRiskRecords)/float64(n) > 0.3 {
		recs = append(recs, RecHighRiskShare)
	}
	if r.DataTransformations.CurrencyConversions[model.FieldSumInsured+"_total_usd"] == 0 {
		recs = append(recs, RecNoSumInsured)
	}
	if g := r.DataTransformations.GeographyStandardization; g != nil && len(g.TopLocations) > 0 {
		if float64(g.TopLocations[0].Count) > float64(n)*0.5 {
			recs = append(recs, RecConcentration)
		}
	}
	if t.Has(model.FieldPremiumRate) {
		low := 0
		for _, v := range t.Column(model.FieldPremiumRate) {
			if v.FloatOr(0) < 0.001 {
				low++
			}
		}
		if float64(low) > float64(n)*0.2 {
			recs = append(recs, RecLowPremiumPricing)
		}
	}
	return recs
}

func geographySummary(values []model.Value) *GeographySummary {
	counts := make(map[string]int)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		counts[v.Text()]++
	}
	locs := make([]LocationCount, 0, len(counts))
	for loc, c := range counts {
		locs = append(locs, LocationCount{Location: loc, Count: c})
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Count != locs[j].Count {
			return locs[i].Count > locs[j].Count
		}
		return locs[i].Location < locs[j].Location
	})
	unique := len(locs)
	if len(locs) > topLocationLimit {
		locs = locs[:topLocationLimit]
	}
	return &GeographySummary{UniqueLocations: unique, TopLocations: locs}
}

func mean(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
