package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestMartsRequireAuth(t *testing.T) {
	app, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/marts/pick-volume", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPickVolumeEndpoint(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/marts/pick-volume?from=2018-03-01&to=2018-03-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := decodeList(t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "2018-03-26", rows[0]["date"])
	assert.Equal(t, float64(42), rows[0]["pick_volume"])
	assert.Equal(t, "2018_13", rows[0]["week"])
}

func TestPickVolumeRejectsBadParams(t *testing.T) {
	app, _ := newTestServer(t)

	for _, target := range []string{
		"/api/marts/pick-volume?from=26.03.2018",
		"/api/marts/pick-volume?drill_down=pallet_color",
		"/api/marts/pick-volume?from=2018-03-31&to=2018-03-01",
	} {
		resp := authedRequest(t, app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		resp.Body.Close()
	}
}

func TestTopProductsEndpoint(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/marts/top-products?top_n=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := decodeList(t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0]["product_id"])
}

func TestPickThroughputSwitchesOnDrillDown(t *testing.T) {
	app, _ := newTestServer(t)

	// hourly series without drill_down
	resp := authedRequest(t, app, http.MethodGet, "/api/marts/pick-throughput", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decodeList(t, resp)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "pick_hour")

	// weekly averages with drill_down
	resp = authedRequest(t, app, http.MethodGet, "/api/marts/pick-throughput?drill_down=warehouse_section", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows = decodeList(t, resp)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "avg_pick_volume")
}

func TestZScoreDistributionRejectsBadPeriod(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/marts/zscore-distribution?period=fortnight", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/dashboard/summary", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2018_13", body["latest_week"])

	totals, ok := body["totals"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), totals["pick_volume"])
}

func TestWeeklyReportEndpoint(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/reports/weekly?week=2018_13", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "weekly_report_2018_13.pdf")
}

func TestWeeklyReportRejectsBadWeek(t *testing.T) {
	app, _ := newTestServer(t)

	resp := authedRequest(t, app, http.MethodGet, "/api/reports/weekly?week=2018-13", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
