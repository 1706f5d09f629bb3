package rest

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anton-kapralov/graduate-pulse/dashboard/listing"
	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type Controller interface {
	Graph(c *gin.Context)
	ROI(c *gin.Context)
	Dataset(c *gin.Context)
	Stability(c *gin.Context)
	StabilityPage(c *gin.Context)
	StabilityLinePNG(c *gin.Context)
}

type controller struct {
	listingService listing.Service
}

func NewController(listingService listing.Service) Controller {
	return &controller{listingService: listingService}
}

// Register mounts every dashboard route on router.
func Register(router gin.IRouter, c Controller) {
	router.GET("/function2graph", c.Graph)
	router.GET("/api/roi/university", c.ROI)
	router.GET("/api/stability/dataset", c.Dataset)
	router.GET("/api/stability", c.Stability)
	router.GET("/stability", c.StabilityPage)
	router.GET("/stability/line.png", c.StabilityLinePNG)
}

func (c *controller) Graph(ctx *gin.Context) {
	key, err := listing.ParseGroupKey(ctx.Query("group_by"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	graph, err := c.listingService.Graph(ctx, key)
	if err != nil {
		log.Println(err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, graph)
}

func (c *controller) ROI(ctx *gin.Context) {
	startYearStr := ctx.Query("start_year")
	endYearStr := ctx.Query("end_year")
	if startYearStr == "" || endYearStr == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "required parameters not set"})
		return
	}
	startYear, err := strconv.Atoi(startYearStr)
	if err != nil {
		msg := fmt.Sprintf("failed to parse start_year: %s", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	endYear, err := strconv.Atoi(endYearStr)
	if err != nil {
		msg := fmt.Sprintf("failed to parse end_year: %s", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if startYear > endYear {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "start_year is after end_year"})
		return
	}
	rows, err := c.listingService.ROI(ctx, startYear, endYear)
	if err != nil {
		log.Println(err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, survey.ROIPage{Results: rows})
}

// abortWithError maps listing and stability errors onto HTTP statuses.
func abortWithError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, listing.ErrUnknownMetric), errors.Is(err, errBadYear):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, stability.ErrDataNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Println(err)
		ctx.Status(http.StatusInternalServerError)
	}
}
