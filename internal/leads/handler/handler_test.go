package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lead_triage_backend/internal/leads/intent"
	"lead_triage_backend/internal/leads/repository"
	"lead_triage_backend/internal/leads/scoring"
	"lead_triage_backend/internal/leads/service"
	"lead_triage_backend/internal/leads/tier"
	"lead_triage_backend/internal/leads/transport"
	"lead_triage_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const sampleCSV = "name,email,phone,message,location_preference,budget,timeframe_to_move,source\n" +
	"Aisha,aisha@example.com,+971501234567,Looking to buy a 3 bedroom villa with garden urgently,Dubai Hills,AED 4.5M,ASAP,Website\n" +
	"Omar,,,Looking to buy a 3 bedroom villa with garden urgently,Dubai Hills,AED 4.5M,ASAP,\n" +
	"Sam,sam@example.com,,hi,London,,,Facebook\n"

func newRouter(t *testing.T, maxBytes int64) *gin.Engine {
	t.Helper()
	svc := service.New(repository.NewMemoryStore(), scoring.Default(), tier.Default(), intent.NewHeuristicClassifier())
	r := gin.New()
	if maxBytes > 0 {
		r.Use(httpkit.BodyLimit(maxBytes))
	}
	New(svc).RegisterRoutes(r.Group(""))
	return r
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, r http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, formFieldFile, "leads.csv", content)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ct)
	return do(r, req)
}

func TestProcessListReportClear(t *testing.T) {
	r := newRouter(t, 0)

	rec := upload(t, r, sampleCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var processed transport.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &processed))
	assert.Equal(t, "Processed 3 leads", processed.Message)
	assert.Equal(t, 3, processed.Count)
	assert.Equal(t, 2, processed.Tiers["HOT"])

	rec = do(r, httptest.NewRequest(http.MethodGet, "/leads", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var leads []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 3)
	assert.EqualValues(t, 1, leads[0]["id"])
	assert.Equal(t, "HOT", leads[0]["tier"])
	assert.Equal(t, "call now", leads[0]["action"])
	assert.EqualValues(t, 0, leads[1]["breakdown"].(map[string]any)["contact"])
	for _, l := range leads {
		for _, key := range []string{"id", "data", "score", "tier", "action", "intent", "reason", "breakdown"} {
			assert.Contains(t, l, key)
		}
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var report map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report["Website"], 1)
	assert.Len(t, report["Unknown"], 1)
	assert.NotContains(t, report, "Facebook")

	rec = do(r, httptest.NewRequest(http.MethodDelete, "/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Cleared 3 leads","count":3}`, rec.Body.String())

	rec = do(r, httptest.NewRequest(http.MethodDelete, "/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Cleared 0 leads","count":0}`, rec.Body.String())

	rec = do(r, httptest.NewRequest(http.MethodGet, "/leads", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProcessRejectsBadFiles(t *testing.T) {
	r := newRouter(t, 0)

	rec := upload(t, r, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, r, "foo,bar\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")

	rec = do(r, httptest.NewRequest(http.MethodGet, "/leads", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProcessRequiresFileField(t *testing.T) {
	r := newRouter(t, 0)
	body, ct := multipartBody(t, "upload", "leads.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ct)

	rec := do(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgFileRequired)
}

func TestProcessRejectsOversizedUpload(t *testing.T) {
	r := newRouter(t, 256)
	rec := upload(t, r, sampleCSV+strings.Repeat("Filler,,,,,,,\n", 100))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestScoringRules(t *testing.T) {
	r := newRouter(t, 0)
	rec := do(r, httptest.NewRequest(http.MethodGet, "/scoring-rules", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, scoring.ScoreVersion, resp["version"])
	assert.EqualValues(t, 30, resp["weights"].(map[string]any)["location"])
	assert.EqualValues(t, 80, resp["thresholds"].(map[string]any)["HOT"])
	assert.Equal(t, "heuristic", resp["intent_backend"])
	assert.ElementsMatch(t, []any{"spam", "not_relevant"}, resp["downgrade_labels"])
}
