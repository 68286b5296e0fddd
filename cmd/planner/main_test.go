package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loanPlan = `kind: loan
loan:
  principal: 500000
  annual_rate_percent: 12
  tenure_years: 5
`

const prepayPlan = `kind: loan
loan:
  principal: 500000
  annual_rate_percent: 12
  tenure_years: 5
  prepayments:
    - kind: one_time
      amount: 100000
      start_month: 12
`

const debtPlan = `kind: payoff
payoff:
  strategy: avalanche
  extra_payment: 5000
  start_date: 2025-01-01T00:00:00Z
  debts:
    - id: a
      balance: 50000
      annual_rate_percent: 18
      min_payment: 1500
    - id: b
      balance: 120000
      annual_rate_percent: 11
      min_payment: 3200
`

// workspace runs the CLI in a fresh directory with a file-backed store there
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PLANNER_STORE_BACKEND", "file")
	t.Setenv("PLANNER_STORE_DIR", filepath.Join(dir, "scenarios"))
	t.Setenv("PLANNER_LOGGING_LEVEL", "error")
	return dir
}

func writePlan(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "planner dev")
}

func TestEMI(t *testing.T) {
	workspace(t)

	code, out, _ := runCLI(t, "emi", "--principal", "500000", "--rate", "12", "--years", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "$11,122.22")
	assert.Contains(t, out, "Installments:        60")

	code, out, _ = runCLI(t, "emi", "--principal", "500000", "--rate", "12", "--years", "5", "--format", "json")
	require.Equal(t, 0, code)
	var b struct {
		TenureMonths int `json:"tenure_months"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 60, b.TenureMonths)

	code, out, _ = runCLI(t, "emi", "--principal", "0", "--years", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not computable")

	code, _, errOut := runCLI(t, "emi", "--principal", "lots", "--years", "5")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid --principal")
}

func TestAmortize(t *testing.T) {
	dir := workspace(t)
	plan := writePlan(t, dir, "prepay.yaml", prepayPlan)

	code, out, _ := runCLI(t, "amortize", plan, "--summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "47 of 60 months")
	assert.Contains(t, out, "Months saved:     13")
	assert.NotContains(t, out, "Prepayment", "summary omits the ledger")

	code, out, _ = runCLI(t, "amortize", plan, "--format", "ledger")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 48, "header plus one row per month")
}

func TestAmortize_RejectsWrongKind(t *testing.T) {
	dir := workspace(t)
	plan := writePlan(t, dir, "debts.yaml", debtPlan)

	code, _, errOut := runCLI(t, "amortize", plan)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "expected a loan plan")
}

func TestPayoff(t *testing.T) {
	dir := workspace(t)
	plan := writePlan(t, dir, "debts.yaml", debtPlan)

	code, out, _ := runCLI(t, "payoff", plan, "--summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Debt-free in:     22 months")
	assert.Contains(t, out, "Nov 2026")

	code, out, _ = runCLI(t, "payoff", plan, "--compare-strategies", "--format", "summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "avalanche,payoff,true,22,")
	assert.Contains(t, out, "snowball,payoff,true,")

	code, _, errOut := runCLI(t, "payoff", plan, "--strategy", "tsunami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown strategy")
}

func TestCompare(t *testing.T) {
	dir := workspace(t)
	base := writePlan(t, dir, "base.yaml", loanPlan)
	cand := writePlan(t, dir, "cand.yaml", prepayPlan)

	code, out, _ := runCLI(t, "compare", base, cand, "--format", "json")
	require.Equal(t, 0, code)
	var cmp struct {
		InterestDelta string `json:"interest_delta"`
		TenureDelta   int    `json:"tenure_delta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, -13, cmp.TenureDelta)
	assert.True(t, strings.HasPrefix(cmp.InterestDelta, "-52711.61"))
}

func TestUnknownFormat(t *testing.T) {
	dir := workspace(t)
	plan := writePlan(t, dir, "loan.yaml", loanPlan)

	code, _, errOut := runCLI(t, "amortize", plan, "--format", "pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unsupported report format")
}

func TestOutputDir(t *testing.T) {
	dir := workspace(t)
	plan := writePlan(t, dir, "loan.yaml", loanPlan)
	reports := filepath.Join(dir, "reports")

	code, out, _ := runCLI(t, "amortize", plan, "--format", "json", "--output-dir", reports)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Report written to")

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestScenarioLifecycle(t *testing.T) {
	dir := workspace(t)
	base := writePlan(t, dir, "base.yaml", loanPlan)
	cand := writePlan(t, dir, "cand.yaml", prepayPlan)

	code, out, _ := runCLI(t, "scenario", "save", base, "--name", "no prepay")
	require.Equal(t, 0, code)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	code, out, _ = runCLI(t, "scenario", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "no prepay")

	code, out, _ = runCLI(t, "scenario", "show", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "kind: loan")
	assert.Contains(t, out, "tenure_years: 5")

	code, out, _ = runCLI(t, "scenario", "compare", cand, id, "--format", "summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "baseline,loan,true,60,")
	assert.Contains(t, out, "candidate,loan,true,47,")

	code, _, _ = runCLI(t, "scenario", "delete", id)
	require.Equal(t, 0, code)

	code, _, errOut := runCLI(t, "scenario", "delete", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "scenario not found")
}

func TestScenarioCompare_MissingKeepsActiveResult(t *testing.T) {
	dir := workspace(t)
	cand := writePlan(t, dir, "cand.yaml", prepayPlan)

	code, out, errOut := runCLI(t, "scenario", "compare", cand, "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "47 of 60 months")
	assert.Contains(t, errOut, "scenario not found")
}

func TestScenarioCompare_Ranking(t *testing.T) {
	dir := workspace(t)
	base := writePlan(t, dir, "base.yaml", loanPlan)
	cand := writePlan(t, dir, "cand.yaml", prepayPlan)

	for _, p := range []string{base, cand} {
		code, _, _ := runCLI(t, "scenario", "save", p)
		require.Equal(t, 0, code)
	}

	code, out, _ := runCLI(t, "scenario", "compare", base, "--all", "--format", "summary")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, "header, active, two saved")
	assert.Contains(t, lines[2], ",47,", "cheapest saved scenario first")
	assert.Contains(t, lines[3], ",60,")
}

func TestInit(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "example.yaml")

	code, _, _ := runCLI(t, "init", path, "--kind", "payoff")
	require.Equal(t, 0, code)

	code, out, _ := runCLI(t, "payoff", path, "--summary")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Debt-free in:")

	code, _, _ = runCLI(t, "init", "--kind", "mortgage")
	assert.Equal(t, 1, code)
}
