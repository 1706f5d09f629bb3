// Package client reads the dashboard JSON API.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Dataset loads the full-range stability dataset for metric.
func (c *Client) Dataset(ctx context.Context, metric string) (stability.Dataset, error) {
	var ds stability.Dataset
	err := c.getJSON(ctx, "/api/stability/dataset", url.Values{"metric": {metric}}, &ds)
	return ds, err
}

func (c *Client) Graph(ctx context.Context, groupBy string) (survey.GraphSeries, error) {
	var g survey.GraphSeries
	err := c.getJSON(ctx, "/function2graph", url.Values{"group_by": {groupBy}}, &g)
	return g, err
}

func (c *Client) ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error) {
	var page survey.ROIPage
	err := c.getJSON(ctx, "/api/roi/university", url.Values{
		"start_year": {strconv.Itoa(startYear)},
		"end_year":   {strconv.Itoa(endYear)},
	}, &page)
	return page.Results, err
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	target := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
