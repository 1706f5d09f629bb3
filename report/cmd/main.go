package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/anton-kapralov/graduate-pulse/charts"
	"github.com/anton-kapralov/graduate-pulse/report/client"
	"github.com/anton-kapralov/graduate-pulse/report/roiview"
	"github.com/anton-kapralov/graduate-pulse/stability"
)

type options struct {
	dashboardURL string
	timeout      time.Duration
	metric       string
	groupBy      string
	from, to     int
	out          string
}

// writeReport loads the stability dataset from the dashboard, narrows it to
// the requested range and renders it together with ROI and the graph into w.
// ROI and graph failures leave their sections out of the report.
func writeReport(ctx context.Context, dashboardClient *client.Client, opts options, w io.Writer) (stability.State, error) {
	ds, err := dashboardClient.Dataset(ctx, opts.metric)
	if err != nil {
		return stability.State{}, fmt.Errorf("%w: %s", stability.ErrDataNotFound, err)
	}
	set, err := ds.Series()
	if err != nil {
		return stability.State{}, err
	}

	dashboard := charts.NewDashboard("Graduate employment report")
	recomputer, err := stability.NewRecomputer(set, dashboard.Sinks())
	if err != nil {
		return stability.State{}, fmt.Errorf("failed to build stability views: %w", err)
	}
	defer recomputer.Close()

	if opts.from != 0 || opts.to != 0 {
		if !recomputer.ApplyRange(opts.from, opts.to) {
			log.Printf("Ignoring year range %d-%d: both years must be in %v", opts.from, opts.to, set.Years)
		}
	}

	state := recomputer.State()
	startYear, endYear := set.Years[0], set.Years[len(set.Years)-1]
	if state.Filtered {
		startYear, endYear = state.From, state.To
	}
	roi := roiview.New(dashboardClient, dashboard.ROITable(), dashboard.ROIBar())
	if err := roi.Apply(ctx, startYear, endYear); err != nil {
		log.Printf("Writing the report without ROI for %d-%d", startYear, endYear)
	}

	if graph, err := dashboardClient.Graph(ctx, opts.groupBy); err != nil {
		log.Printf("Failed to load graph by %s: %s", opts.groupBy, err)
	} else {
		dashboard.Graph().Update(graph)
	}

	if err := dashboard.Render(w); err != nil {
		return state, fmt.Errorf("failed to render report: %w", err)
	}
	return state, nil
}

func main() {
	var opts options
	flag.StringVar(&opts.dashboardURL, "dashboard.url", "http://localhost:8082", "Dashboard base URL")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout of every dashboard call")
	flag.StringVar(&opts.metric, "metric", "employment", "Stability metric: employment or salary")
	flag.StringVar(&opts.groupBy, "group_by", "university", "Grouping of the salary and employment graph")
	flag.IntVar(&opts.from, "from", 0, "First year of the range; 0 keeps the full span")
	flag.IntVar(&opts.to, "to", 0, "Last year of the range; 0 keeps the full span")
	flag.StringVar(&opts.out, "out", "report.html", "Output HTML file")
	flag.Parse()

	dashboardClient := client.New(opts.dashboardURL, opts.timeout)

	var buf bytes.Buffer
	state, err := writeReport(context.Background(), dashboardClient, opts, &buf)
	if errors.Is(err, stability.ErrDataNotFound) {
		log.Fatalf("data not found: %s", err)
	}
	if err != nil {
		log.Fatalln(err)
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %s", opts.out, err)
	}
	log.Printf("Report for %s written to %s", state, opts.out)
}
