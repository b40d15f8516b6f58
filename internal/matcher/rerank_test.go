package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

func TestRerankGaugeAgreementWins(t *testing.T) {
	cfg := Default()
	query := "cable thhn #12 aislado"
	spec := ExtractSpecs(query, cfg)

	candidates := []domain.Candidate{
		{Code: "CAB-10", Name: "Cable THHN 10 AWG", BaseScore: 0.92},
		{Code: "CAB-12", Name: "Cable THHN 12 AWG", BaseScore: 0.90},
		{Code: "CAB-GEN", Name: "Cable encauchetado", BaseScore: 0.88},
	}

	scored, best := Rerank(query, spec, candidates, cfg, 10)

	require.Len(t, scored, 3)
	require.NotNil(t, best)
	assert.Equal(t, "CAB-12", best.Code)
	assert.Greater(t, best.FinalScore, scored[1].FinalScore)
	// The mismatching gauge is hit harder than the missing one.
	assert.Equal(t, "CAB-GEN", scored[1].Code)
	assert.Equal(t, "CAB-10", scored[2].Code)
}

func TestRerankBareRequestPenalizesInsulated(t *testing.T) {
	cfg := Default()
	query := "cable desnudo 2/0"
	spec := ExtractSpecs(query, cfg)

	candidates := []domain.Candidate{
		{Code: "THHN-20", Name: "Cable THHN 2/0 AWG", BaseScore: 0.95},
		{Code: "DESN-20", Name: "Cable desnudo 2/0 AWG", BaseScore: 0.90},
	}

	_, best := Rerank(query, spec, candidates, cfg, 10)

	require.NotNil(t, best)
	assert.Equal(t, "DESN-20", best.Code)
}

func TestRerankAvoidTermSparedByOriginalQuery(t *testing.T) {
	cfg := Default()

	cand := domain.Candidate{Code: "UTP-1", Name: "Cable UTP cat6", BaseScore: 0.8}

	// Term present in the candidate but absent from the request is penalized.
	spec := ExtractSpecs("cable para acometida", cfg)
	scored, _ := Rerank("cable para acometida", spec, []domain.Candidate{cand}, cfg, 10)
	require.Len(t, scored, 1)
	assert.Negative(t, scored[0].Adjustment)

	// The same term typed by the user draws no penalty.
	spec = ExtractSpecs("cable utp cat6", cfg)
	scored, _ = Rerank("cable utp cat6", spec, []domain.Candidate{cand}, cfg, 10)
	require.Len(t, scored, 1)
	assert.GreaterOrEqual(t, scored[0].Adjustment, 0.0)
}

func TestRerankNoDeltaPreservesRecallOrder(t *testing.T) {
	cfg := Default()
	query := "tornillo autoperforante"
	spec := ExtractSpecs(query, cfg)

	candidates := []domain.Candidate{
		{Code: "T-1", Name: "Tornillo 1in", BaseScore: 0.70},
		{Code: "T-2", Name: "Tornillo 2in", BaseScore: 0.70},
		{Code: "T-3", Name: "Tornillo 3in", BaseScore: 0.65},
	}

	scored, best := Rerank(query, spec, candidates, cfg, 10)

	require.Len(t, scored, 3)
	assert.Equal(t, "T-1", best.Code)
	for i, c := range candidates {
		assert.Equal(t, c.Code, scored[i].Code)
		assert.Zero(t, scored[i].Adjustment)
		assert.Equal(t, c.BaseScore, scored[i].FinalScore)
	}
}

func TestRerankEmptyAndLimit(t *testing.T) {
	cfg := Default()
	spec := ExtractSpecs("cable #12", cfg)

	scored, best := Rerank("cable #12", spec, nil, cfg, 5)
	assert.Empty(t, scored)
	assert.Nil(t, best)

	candidates := []domain.Candidate{
		{Code: "A", Name: "Cable 12 AWG", BaseScore: 0.9},
		{Code: "B", Name: "Cable 12 AWG rojo", BaseScore: 0.8},
		{Code: "C", Name: "Cable 12 AWG azul", BaseScore: 0.7},
	}
	scored, best = Rerank("cable #12", spec, candidates, cfg, 2)
	require.NotNil(t, best)
	assert.Len(t, scored, 2)
	assert.Equal(t, best.Code, scored[0].Code)
}
