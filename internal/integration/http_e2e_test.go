package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/adapters/csvsource"
	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/adapters/polarity"
	"review_insights/internal/app"
)

// ---------- helpers ----------

func writeFixtures(t *testing.T, dir string, n int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("review_id,review_text,brand,model,rating,sentiment,country,review_date,price_usd,camera_rating\n")
	for i := 0; i < n; i++ {
		brand, model := "samsung", "Galaxy S23"
		if i%2 == 1 {
			brand, model = "iphone", "iPhone 15"
		}
		fmt.Fprintf(&b, "r%d,Review number %d: the camera is great,%s,%s,4,positive,India,2024-01-%02d,799,5\n",
			i, i, brand, model, i%28+1)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "e_commerce_reviews.csv"), []byte(b.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "twitter_reviews.csv"),
		[]byte("ID,Tweet \n1,Loving the new pixel camera so far\n2,meh\n"), 0o644))
}

func newAPI(t *testing.T, dir string) (*httptest.Server, *app.State) {
	t.Helper()
	st := app.NewState(app.NewIngestionService(csvsource.New(dir, nil), polarity.NewVader()))
	srv := server.New(nil)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(st), R: st})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, st
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}
	return res
}

// ---------- tests ----------

func TestHTTP_UnavailableBeforeLoad(t *testing.T) {
	ts, _ := newAPI(t, t.TempDir())

	var health map[string]any
	res := getJSON(t, ts.URL+"/api/health", &health)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "degraded", health["status"])

	for _, path := range []string{"/api/buyer-insights", "/api/supplier-insights", "/api/filters", "/api/model-advisor", "/api/reviews"} {
		var p map[string]any
		res := getJSON(t, ts.URL+path, &p)
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode, path)
		assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"), path)
		assert.Equal(t, "datasets_unavailable", p["title"], path)
	}

	// empty data dir: reload fails with no datasets
	res, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestHTTP_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, 95)
	ts, st := newAPI(t, dir)

	res, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	var reloaded struct {
		Status     string   `json:"status"`
		Datasets   []string `json:"datasets"`
		SnapshotID string   `json:"snapshot_id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&reloaded))
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "reloaded", reloaded.Status)
	assert.Equal(t, []string{"twitter", "ecommerce"}, reloaded.Datasets)
	assert.Equal(t, st.Current().ID, reloaded.SnapshotID)

	t.Run("pagination", func(t *testing.T) {
		var page struct {
			Reviews    []map[string]any `json:"reviews"`
			Total      int              `json:"total"`
			Page       int              `json:"page"`
			TotalPages int              `json:"total_pages"`
		}
		getJSON(t, ts.URL+"/api/reviews?dataset=ecommerce&page=5&page_size=20", &page)
		assert.Equal(t, 95, page.Total)
		assert.Equal(t, 5, page.TotalPages)
		assert.Len(t, page.Reviews, 15)

		getJSON(t, ts.URL+"/api/reviews?dataset=ecommerce&page=6&page_size=20", &page)
		assert.Empty(t, page.Reviews)

		getJSON(t, ts.URL+"/api/reviews?brand=Apple&min_rating=oops&page=-1", &page)
		assert.Equal(t, 47, page.Total)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("etag", func(t *testing.T) {
		res := getJSON(t, ts.URL+"/api/buyer-insights", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		etag := res.Header.Get("ETag")
		require.True(t, strings.HasPrefix(etag, `W/"`))

		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+"/api/buyer-insights", nil)
		req.Header.Set("If-None-Match", etag)
		res2, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res2.Body.Close()
		assert.Equal(t, http.StatusNotModified, res2.StatusCode)
	})

	t.Run("reports", func(t *testing.T) {
		var buyer map[string]any
		getJSON(t, ts.URL+"/api/buyer-insights", &buyer)
		require.Contains(t, buyer, "datasets")
		require.Contains(t, buyer, "overall")

		var supplier map[string]any
		res := getJSON(t, ts.URL+"/api/supplier-insights", &supplier)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var filters struct {
			Sentiments []string `json:"sentiments"`
		}
		getJSON(t, ts.URL+"/api/filters", &filters)
		assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, filters.Sentiments)

		var advisor struct {
			Models []map[string]any `json:"models"`
		}
		getJSON(t, ts.URL+"/api/model-advisor", &advisor)
		assert.Len(t, advisor.Models, 2)
	})

	t.Run("cors and metrics", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

		res, err = http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
}
