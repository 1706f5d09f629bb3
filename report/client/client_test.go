package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stability/dataset", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "salary", r.URL.Query().Get("metric"))
		_, _ = w.Write([]byte(`{"yearsAll":[2020,2021],"lineDatasetsAll":[{"label":"NUS","data":[4000,null]}],
			"years":[2020,2021],"lineDatasets":[],"barLabels":[],"barValues":[],"scatterPoints":[]}`))
	})
	mux.HandleFunc("/function2graph", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "year", r.URL.Query().Get("group_by"))
		_, _ = w.Write([]byte(`{"labels":["2020"],"salary":[4000],"employment":[null]}`))
	})
	mux.HandleFunc("/api/roi/university", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start_year") == "2030" {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "2021", r.URL.Query().Get("end_year"))
		_, _ = w.Write([]byte(`{"results":[{"university":"NUS","avg_ft_employment_rate":90,"avg_median_salary":4000,"roi_score":3600}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/", time.Second)
	ctx := context.Background()

	ds, err := c.Dataset(ctx, "salary")
	assert.Nil(t, err)
	set, err := ds.Series()
	assert.Nil(t, err)
	assert.Equal(t, []int{2020, 2021}, set.Years)
	assert.Nil(t, set.Groups[0].Data[1])

	g, err := c.Graph(ctx, "year")
	assert.Nil(t, err)
	assert.Equal(t, 4000.0, *g.Salary[0])
	assert.Nil(t, g.Employment[0])

	rows, err := c.ROI(ctx, 2019, 2021)
	assert.Nil(t, err)
	assert.Equal(t, 3600.0, rows[0].ROIScore)

	_, err = c.ROI(ctx, 2030, 2031)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "500"))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL, time.Second).Dataset(context.Background(), "employment")
	assert.NotNil(t, err)
}
