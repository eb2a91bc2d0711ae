package model

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrSolverUnavailable is returned when allocation is requested without a solver.
var ErrSolverUnavailable = eris.New("model: allocation solver unavailable")

// FeatureFields is the fixed order of the inference feature vector.
var FeatureFields = []string{
	FieldSumInsured, FieldClaimRatio, FieldLossFrequency, FieldLossSeverity,
	FieldPremiumRate, FieldNormalizedRiskScore, FieldDataCompleteness,
	FieldLossRatio, FieldESGScore, FieldCatastropheExposure,
}

// FeatureVector is the numeric feature subset consumed by inference services.
type FeatureVector [10]float64

// Features projects a normalized record onto the feature vector. Missing or
// non-numeric cells read as zero.
func Features(r Record) FeatureVector {
	var fv FeatureVector
	for i, f := range FeatureFields {
		fv[i] = r.Get(f).FloatOr(0)
	}
	return fv
}

// Map returns the vector keyed by field name.
func (fv FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(fv))
	for i, f := range FeatureFields {
		out[f] = fv[i]
	}
	return out
}

// AllocationInput is one record as seen by the portfolio allocation solver.
type AllocationInput struct {
	ID                  string  `json:"id"`
	SumInsured          float64 `json:"sum_insured"`
	NormalizedRiskScore float64 `json:"normalized_risk_score"`
	ESGScore            float64 `json:"esg_score"`
	CatastropheExposure float64 `json:"catastrophe_exposure"`
}

// AllocationInputs projects every row of the table. Rows without a cedant are
// identified by position.
func AllocationInputs(t *Table) []AllocationInput {
	out := make([]AllocationInput, len(t.Rows))
	for i, r := range t.Rows {
		id := fmt.Sprintf("sub_%d", i)
		if c := r.Get(FieldCedant); !c.IsNull() && c.Text() != "" {
			id = c.Text()
		}
		out[i] = AllocationInput{
			ID:                  id,
			SumInsured:          r.Get(FieldSumInsured).FloatOr(1),
			NormalizedRiskScore: r.Get(FieldNormalizedRiskScore).FloatOr(5),
			ESGScore:            r.Get(FieldESGScore).FloatOr(0.5),
			CatastropheExposure: r.Get(FieldCatastropheExposure).FloatOr(0.5),
		}
	}
	return out
}

// Allocator computes fractional allocation shares per id for a given capital.
type Allocator interface {
	Allocate(ctx context.Context, inputs []AllocationInput, capital float64) (map[string]float64, error)
}

// Allocate runs the solver over the table, failing with ErrSolverUnavailable
// when no solver is configured.
func Allocate(ctx context.Context, a Allocator, t *Table, capital float64) (map[string]float64, error) {
	if a == nil {
		return nil, ErrSolverUnavailable
	}
	shares, err := a.Allocate(ctx, AllocationInputs(t), capital)
	if err != nil {
		return nil, eris.Wrap(err, "model: allocate")
	}
	return shares, nil
}
