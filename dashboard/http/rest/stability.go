package rest

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anton-kapralov/graduate-pulse/charts"
	"github.com/anton-kapralov/graduate-pulse/dashboard/listing"
	"github.com/anton-kapralov/graduate-pulse/stability"
)

var errBadYear = errors.New("bad year")

type stabilityPage struct {
	Metric  listing.Metric        `json:"metric"`
	Applied bool                  `json:"applied"`
	State   stability.State       `json:"state"`
	Bar     stability.BarView     `json:"bar"`
	Scatter stability.ScatterView `json:"scatter"`
	Line    stability.LineView    `json:"line"`
	Table   stability.TableView   `json:"table"`
}

// yearRange reads the optional from/to query parameters.
type yearRange struct {
	set      bool
	from, to int
}

func parseYearRange(ctx *gin.Context) (yearRange, error) {
	fromStr, toStr := ctx.Query("from"), ctx.Query("to")
	if fromStr == "" && toStr == "" {
		return yearRange{}, nil
	}
	from, err := strconv.Atoi(fromStr)
	if err != nil {
		return yearRange{}, fmt.Errorf("%w: from=%q", errBadYear, fromStr)
	}
	to, err := strconv.Atoi(toStr)
	if err != nil {
		return yearRange{}, fmt.Errorf("%w: to=%q", errBadYear, toStr)
	}
	return yearRange{set: true, from: from, to: to}, nil
}

// recompute loads the series for the requested metric and runs a Recomputer
// over sinks. An invalid range leaves the unfiltered views in place.
func (c *controller) recompute(ctx *gin.Context, sinks stability.Sinks) (listing.Metric, *stability.Recomputer, bool, error) {
	metric, err := listing.ParseMetric(ctx.Query("metric"))
	if err != nil {
		return "", nil, false, err
	}
	rng, err := parseYearRange(ctx)
	if err != nil {
		return "", nil, false, err
	}
	set, err := c.listingService.Series(ctx, metric)
	if err != nil {
		return "", nil, false, err
	}
	r, err := stability.NewRecomputer(set, sinks)
	if err != nil {
		return "", nil, false, err
	}
	applied := true
	if rng.set {
		applied = r.ApplyRange(rng.from, rng.to)
	}
	return metric, r, applied, nil
}

func (c *controller) Dataset(ctx *gin.Context) {
	metric, err := listing.ParseMetric(ctx.Query("metric"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	set, err := c.listingService.Series(ctx, metric)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ds, err := stability.NewDataset(set)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ds)
}

func (c *controller) Stability(ctx *gin.Context) {
	var (
		bar     stability.Latest[stability.BarView]
		scatter stability.Latest[stability.ScatterView]
		line    stability.Latest[stability.LineView]
		table   stability.Latest[stability.TableView]
	)
	metric, r, applied, err := c.recompute(ctx, stability.Sinks{Bar: &bar, Scatter: &scatter, Line: &line, Table: &table})
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	defer r.Close()

	page := stabilityPage{Metric: metric, Applied: applied, State: r.State()}
	page.Bar, _ = bar.View()
	page.Scatter, _ = scatter.View()
	page.Line, _ = line.View()
	page.Table, _ = table.View()
	ctx.JSON(http.StatusOK, page)
}

func (c *controller) StabilityPage(ctx *gin.Context) {
	dashboard := charts.NewDashboard("Graduate employment stability")
	_, r, _, err := c.recompute(ctx, dashboard.Sinks())
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	var buf bytes.Buffer
	err = dashboard.Render(&buf)
	r.Close()
	if err != nil {
		log.Println(err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (c *controller) StabilityLinePNG(ctx *gin.Context) {
	var (
		bar     stability.Latest[stability.BarView]
		scatter stability.Latest[stability.ScatterView]
		line    stability.Latest[stability.LineView]
	)
	metric, r, _, err := c.recompute(ctx, stability.Sinks{Bar: &bar, Scatter: &scatter, Line: &line})
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	defer r.Close()

	view, _ := line.View()
	var buf bytes.Buffer
	if err := charts.RenderLinePNG(&buf, fmt.Sprintf("Yearly %s by university", metric), view); err != nil {
		if errors.Is(err, charts.ErrNothingToPlot) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Println(err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.Data(http.StatusOK, "image/png", buf.Bytes())
}
