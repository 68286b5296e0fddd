package calculation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComparator(t *testing.T) (*Comparator, *recordingLogger) {
	t.Helper()
	logs := &recordingLogger{}
	ce := NewCalculationEngine()
	ce.SetLogger(logs)
	return NewComparator(store.NewMemoryStore(store.Options{}), ce), logs
}

func TestComparator_CompareWithSaved(t *testing.T) {
	c, _ := newTestComparator(t)
	ctx := context.Background()

	id, err := c.SaveScenario(ctx, "no prepayment", domain.NewLoanParams(scenarioA()))
	require.NoError(t, err)

	active := domain.NewLoanParams(scenarioA(domain.Prepayment{Kind: domain.OneTime, Amount: d("100000"), StartMonth: 12}))
	res, err := c.CompareWithSaved(ctx, id, active)
	require.NoError(t, err)

	require.NotNil(t, res.Saved)
	require.NotNil(t, res.Comparison)
	assert.Equal(t, "no prepayment", res.Saved.Name)
	assert.Equal(t, 47, res.Active.Metrics.TenureMonths)
	assertDecimal(t, "-52711.615175699256", res.Comparison.InterestDelta)
	assert.Equal(t, -13, res.Comparison.TenureDelta)
	assert.Equal(t, 60, res.Comparison.Baseline.Metrics.TenureMonths)
}

func TestComparator_CompareWithSavedNotFoundKeepsActive(t *testing.T) {
	c, logs := newTestComparator(t)
	res, err := c.CompareWithSaved(context.Background(), "missing", domain.NewLoanParams(scenarioA()))
	require.ErrorIs(t, err, store.ErrNotFound)

	assert.Nil(t, res.Comparison)
	assert.Nil(t, res.Saved)
	require.NotNil(t, res.Active.Schedule)
	assert.Equal(t, 60, res.Active.Metrics.TenureMonths)
	assertDecimal(t, "167333.430547053332", res.Active.Metrics.TotalInterest)
	assert.Equal(t, 1, logs.count("warn"))
}

func TestComparator_CompareWithSavedCorruptKeepsActive(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir, store.Options{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: other\nparams: {kind: loan}\n"), 0o644))

	c := NewComparator(fs, nil)
	res, err := c.CompareWithSaved(context.Background(), "bad", domain.NewPayoffParams(scenarioB(domain.Avalanche)))
	require.ErrorIs(t, err, store.ErrCorrupt)
	require.NotNil(t, res.Active.Plan)
	assert.Equal(t, 22, res.Active.Plan.MonthsToPayoff)
}

func TestComparator_CompareWithSavedInvalidActive(t *testing.T) {
	c, _ := newTestComparator(t)
	_, err := c.CompareWithSaved(context.Background(), "whatever", domain.ScenarioParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestComparator_LoadReturnsIndependentCopy(t *testing.T) {
	c, _ := newTestComparator(t)
	ctx := context.Background()

	id, err := c.SaveScenario(ctx, "debts", domain.NewPayoffParams(scenarioB(domain.Avalanche)))
	require.NoError(t, err)

	working, err := c.LoadScenario(ctx, id)
	require.NoError(t, err)
	working.Payoff.Debts[0].Balance = d("1")
	working.Payoff.ExtraPayment = d("0")
	working.Payoff.Strategy = domain.Snowball

	again, err := c.LoadScenario(ctx, id)
	require.NoError(t, err)
	assertDecimal(t, "50000", again.Payoff.Debts[0].Balance)
	assertDecimal(t, "5000", again.Payoff.ExtraPayment)
	assert.Equal(t, domain.Avalanche, again.Payoff.Strategy)
}

func TestComparator_ListAndDelete(t *testing.T) {
	c, _ := newTestComparator(t)
	ctx := context.Background()

	a, err := c.SaveScenario(ctx, "a", domain.NewLoanParams(scenarioA()))
	require.NoError(t, err)
	b, err := c.SaveScenario(ctx, "b", domain.NewPayoffParams(scenarioB(domain.Snowball)))
	require.NoError(t, err)

	ids, err := c.ListScenarios(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, ids)

	require.NoError(t, c.DeleteScenario(ctx, a))
	assert.ErrorIs(t, c.DeleteScenario(ctx, a), store.ErrNotFound)
	_, err = c.LoadScenario(ctx, a)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.SaveScenario(ctx, "broken", domain.ScenarioParams{Kind: domain.PayoffScenario})
	assert.Error(t, err)
}

func TestComparator_RankSaved(t *testing.T) {
	c, _ := newTestComparator(t)
	ctx := context.Background()

	plain, err := c.SaveScenario(ctx, "plain", domain.NewLoanParams(scenarioA()))
	require.NoError(t, err)
	monthly, err := c.SaveScenario(ctx, "monthly", domain.NewLoanParams(scenarioA(domain.Prepayment{Kind: domain.Monthly, Amount: d("5000")})))
	require.NoError(t, err)
	yearly, err := c.SaveScenario(ctx, "yearly", domain.NewLoanParams(scenarioA(domain.Prepayment{Kind: domain.Yearly, Amount: d("50000"), StartMonth: 12})))
	require.NoError(t, err)

	active := domain.NewLoanParams(scenarioA(domain.Prepayment{Kind: domain.OneTime, Amount: d("100000"), StartMonth: 12}))
	ranked, err := c.RankSaved(ctx, active, []string{plain, monthly, yearly})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	names := []string{ranked[0].Saved.Name, ranked[1].Saved.Name, ranked[2].Saved.Name}
	assert.Equal(t, []string{"monthly", "yearly", "plain"}, names)
	for _, r := range ranked {
		assert.Equal(t, 47, r.Active.Metrics.TenureMonths)
	}
	assertDecimal(t, "-52711.615175699256", ranked[2].Comparison.InterestDelta)

	_, err = c.RankSaved(ctx, active, []string{plain, "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComparator_RankSavedEmpty(t *testing.T) {
	c, _ := newTestComparator(t)
	ranked, err := c.RankSaved(context.Background(), domain.NewLoanParams(scenarioA()), nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
