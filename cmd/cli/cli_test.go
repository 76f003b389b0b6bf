package cli

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

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestScoreCommand_JSON(t *testing.T) {
	path := writeInput(t, `{"employerId":"emp-1","employerSize":"small","employeeCount":12}`)

	out, err := executeCommand(t, "", "score", "--input", path, "--output", "json", "--tenant", "acme")
	require.NoError(t, err)

	var resp struct {
		Score struct {
			TenantID     string  `json:"tenantId"`
			OverallScore float64 `json:"overallScore"`
			RiskLevel    string  `json:"riskLevel"`
		} `json:"score"`
		Factors   []json.RawMessage `json:"factors"`
		FromCache bool              `json:"fromCache"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "acme", resp.Score.TenantID)
	assert.Equal(t, "low", resp.Score.RiskLevel)
	assert.InDelta(t, 9.5, resp.Score.OverallScore, 1e-9)
	assert.Len(t, resp.Factors, 8)
	assert.False(t, resp.FromCache)
}

func TestScoreCommand_TextFromStdin(t *testing.T) {
	out, err := executeCommand(t, `{"employerId":"emp-1"}`, "score", "--input", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Tenant:      cli")
	assert.Contains(t, out, "Score:       9.5 (low)")
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "denial rate")
}

func TestScoreCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"missing input flag", "", []string{"score"}, "required flag"},
		{"bad output format", "{}", []string{"score", "-i", "-", "-o", "yaml"}, "unsupported output format"},
		{"missing file", "", []string{"score", "-i", filepath.Join(t.TempDir(), "nope.json")}, "open input"},
		{"malformed json", "{", []string{"score", "-i", "-"}, "decode input"},
		{"missing employer", "{}", []string{"score", "-i", "-"}, "employer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.wantErr))
		})
	}
}

func TestFactorsCommand(t *testing.T) {
	out, err := executeCommand(t, "", "factors")
	require.NoError(t, err)
	assert.Contains(t, out, "denial_rate")
	assert.Contains(t, out, "0.25")
	assert.Contains(t, out, "critical")

	out, err = executeCommand(t, "", "factors", "-o", "json")
	require.NoError(t, err)
	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Len(t, cfg["weights"], 8)
}

func TestModelCommand(t *testing.T) {
	out, err := executeCommand(t, "", "model")
	require.NoError(t, err)
	assert.Contains(t, out, "PSL Compliance Risk Model v1.0.0")
	assert.Contains(t, out, "deterministic: true")

	out, err = executeCommand(t, "", "model", "--output", "json")
	require.NoError(t, err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.0.0", info["version"])
}
