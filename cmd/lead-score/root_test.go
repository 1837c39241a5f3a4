package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "name,email,phone,message,location_preference,budget,timeframe_to_move,source\n" +
	"Aisha,aisha@example.com,+971501234567,Looking to buy a 3 bedroom villa with garden urgently,Dubai Hills,AED 4.5M,ASAP,Website\n" +
	"Sam,sam@example.com,,hi,London,,,Facebook\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScoreFile(t *testing.T) {
	out, err := execute(t, writeCSV(t, sampleCSV))
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Count int            `json:"count"`
			Tiers map[string]int `json:"tiers"`
		} `json:"summary"`
		Leads []map[string]any `json:"leads"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Summary.Count)
	assert.Equal(t, 1, doc.Summary.Tiers["HOT"])
	require.Len(t, doc.Leads, 2)
	assert.Equal(t, "HOT", doc.Leads[0]["tier"])
}

func TestReportOnly(t *testing.T) {
	out, err := execute(t, "--report", writeCSV(t, sampleCSV))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "report")
	assert.NotContains(t, doc, "leads")
	assert.Contains(t, string(doc["report"]), "Website")
}

func TestCheckConfig(t *testing.T) {
	out, err := execute(t, "--check-config")
	require.NoError(t, err)

	var summary configSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "heuristic", summary.IntentBackend)
	assert.False(t, summary.LLMConfigured)
	assert.Equal(t, 80, summary.Thresholds.Hot)
}

func TestErrors(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--llm", writeCSV(t, sampleCSV))
	assert.Error(t, err)

	_, err = execute(t, writeCSV(t, "foo,bar\n1,2\n"))
	assert.Error(t, err)
}
