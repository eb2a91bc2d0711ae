package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAllocator struct {
	got []AllocationInput
}

func (f *fixedAllocator) Allocate(_ context.Context, in []AllocationInput, capital float64) (map[string]float64, error) {
	f.got = in
	out := make(map[string]float64, len(in))
	for _, i := range in {
		out[i.ID] = capital / float64(len(in))
	}
	return out, nil
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	fv := Features(Record{
		FieldSumInsured:          Number(1e6),
		FieldNormalizedRiskScore: Number(4.2),
		FieldESGScore:            String("bad"),
	})
	assert.Equal(t, 1e6, fv[0])
	assert.Equal(t, 4.2, fv[5])
	assert.Equal(t, 0.0, fv[8])
	assert.Len(t, fv.Map(), 10)
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	tbl := &Table{Rows: []Record{
		{FieldCedant: String("Acme Re"), FieldSumInsured: Number(2e6)},
		{FieldNormalizedRiskScore: Number(8)},
	}}

	_, err := Allocate(context.Background(), nil, tbl, 100)
	require.True(t, errors.Is(err, ErrSolverUnavailable))

	a := &fixedAllocator{}
	shares, err := Allocate(context.Background(), a, tbl, 100)
	require.NoError(t, err)
	assert.Equal(t, 50.0, shares["Acme Re"])
	assert.Equal(t, 50.0, shares["sub_1"])

	assert.Equal(t, AllocationInput{ID: "sub_1", SumInsured: 1, NormalizedRiskScore: 8, ESGScore: 0.5, CatastropheExposure: 0.5}, a.got[1])
}
