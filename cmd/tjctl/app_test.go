package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const journal = `DATE,DAY,OPEN,CLOSE,ASSET,SESSION,BUY_SELL,LOTS,TP/SL,$P&L,%P&L,RATIO,RISK,AC PROFIT,TEMPORALIDAD
2024-01-01,Monday,09:00:00,09:30:00,EURUSD,London,BUY,1,TP,100,1,2,1,100,M5
2024-01-02,Tuesday,10:00:00,10:30:00,EURUSD,London,SELL,1,SL,-50,-0.5,1,1,50,M5
`

func writeJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.csv")
	require.NoError(t, os.WriteFile(path, []byte(journal), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"tjctl"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestAnalyze(t *testing.T) {
	out, _, err := run(t, "analyze", "--stats", writeJournal(t))
	require.NoError(t, err)

	var got struct {
		Stats  map[string]int `json:"stats"`
		Report struct {
			Metrics map[string]float64 `json:"metrics"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, 2, got.Stats["rows"])
	assert.Equal(t, 50.0, got.Report.Metrics["winrate"])
	assert.Equal(t, 2.0, got.Report.Metrics["profit_factor"])
}

func TestAnalyze_Text(t *testing.T) {
	out, _, err := run(t, "-o", "text", "analyze", writeJournal(t))
	require.NoError(t, err)
	assert.Contains(t, out, "[metrics]")
	assert.Contains(t, out, "[asset_performance]")
}

func TestAnalyze_Errors(t *testing.T) {
	_, _, err := run(t, "analyze")
	assert.EqualError(t, err, "missing FILE argument")

	_, _, err = run(t, "-o", "yaml", "analyze", writeJournal(t))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "journal.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, _, err = run(t, "analyze", path)
	assert.Error(t, err)
}

func TestUploadAndReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/upload":
			assert.Equal(t, "u-9", r.FormValue("userId"))
			_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"metrics":{"winrate":50}},"meta":{"upload_id":"up-1"}}`))
		case "/api/v1/reports/up-1":
			_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"metrics":{"winrate":50}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"report not found"}`))
		}
	}))
	defer srv.Close()

	out, errOut, err := run(t, "--server", srv.URL, "upload", "--user", "u-9", writeJournal(t))
	require.NoError(t, err)
	assert.Contains(t, errOut, "upload_id: up-1")
	assert.Contains(t, out, `"winrate": 50`)

	out, _, err = run(t, "--server", srv.URL, "report", "up-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"winrate": 50`)

	_, _, err = run(t, "--server", srv.URL, "report", "nope")
	assert.EqualError(t, err, "http 404: report not found")
}
