package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/anton-kapralov/graduate-pulse/report/client"
	"github.com/anton-kapralov/graduate-pulse/stability"
)

const dataset = `{"yearsAll":[2019,2020,2021],
	"lineDatasetsAll":[{"label":"NUS","data":[90,92,94]},{"label":"SMU","data":[80,null,85]}],
	"years":[2019,2020,2021],"lineDatasets":[],"barLabels":[],"barValues":[],"scatterPoints":[]}`

type dashboardStub struct {
	roiFails bool

	mu        sync.Mutex
	roiRanges []string
}

func (d *dashboardStub) ranges() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.roiRanges
}

func (d *dashboardStub) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stability/dataset", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dataset))
	})
	mux.HandleFunc("/function2graph", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["NUS"],"salary":[4000],"employment":[90]}`))
	})
	mux.HandleFunc("/api/roi/university", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		d.mu.Lock()
		d.roiRanges = append(d.roiRanges, q.Get("start_year")+"-"+q.Get("end_year"))
		d.mu.Unlock()
		if d.roiFails {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"university":"NUS","avg_ft_employment_rate":90,"avg_median_salary":4000,"roi_score":3600}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWriteReport(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		state    stability.State
		roiRange string
	}{
		{name: "full span", state: stability.State{}, roiRange: "2019-2021"},
		{name: "filtered", from: 2020, to: 2021, state: stability.State{Filtered: true, From: 2020, To: 2021}, roiRange: "2020-2021"},
		{name: "invalid range keeps full span", from: 2021, to: 2019, state: stability.State{}, roiRange: "2019-2021"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stub := &dashboardStub{}
			c := client.New(stub.server(t).URL, time.Second)

			var buf bytes.Buffer
			state, err := writeReport(context.Background(), c, options{metric: "employment", groupBy: "university", from: test.from, to: test.to}, &buf)
			assert.Nil(t, err)
			assert.Equal(t, test.state, state)
			assert.Equal(t, []string{test.roiRange}, stub.ranges())

			html := buf.String()
			assert.True(t, strings.Contains(html, `<section class="results">`))
			assert.True(t, strings.Contains(html, `<section class="roi">`))
			assert.Equal(t, 1, strings.Count(html, "</html>"))
		})
	}
}

func TestWriteReport_WithoutROI(t *testing.T) {
	stub := &dashboardStub{roiFails: true}
	c := client.New(stub.server(t).URL, time.Second)

	var buf bytes.Buffer
	_, err := writeReport(context.Background(), c, options{metric: "employment", groupBy: "university"}, &buf)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(buf.String(), `<section class="results">`))
	assert.False(t, strings.Contains(buf.String(), `<section class="roi">`))
}

func TestWriteReport_DataNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	_, err := writeReport(context.Background(), client.New(srv.URL, time.Second), options{metric: "employment"}, &buf)
	assert.True(t, errors.Is(err, stability.ErrDataNotFound))
	assert.Equal(t, 0, buf.Len())
}
