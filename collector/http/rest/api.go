package rest

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anton-kapralov/graduate-pulse/collector/collecting"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type Controller interface {
	SaveRecord(c *gin.Context)
	SaveCSV(c *gin.Context)
}

type controller struct {
	collectingService collecting.Service
}

func NewController(collectingService collecting.Service) Controller {
	return &controller{collectingService: collectingService}
}

func (c *controller) SaveRecord(ctx *gin.Context) {
	var record survey.Record
	if err := ctx.ShouldBindJSON(&record); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.collectingService.Save(record); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusAccepted)
}

func (c *controller) SaveCSV(ctx *gin.Context) {
	records, err := survey.ReadCSV(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no records"})
		return
	}
	if err := c.collectingService.SaveAll(records); err != nil {
		respondError(ctx, err)
		return
	}
	log.Printf("Accepted %d survey records", len(records))
	ctx.JSON(http.StatusAccepted, gin.H{"accepted": len(records)})
}

func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, survey.ErrInvalidRecord) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Println(err)
	ctx.Status(http.StatusInternalServerError)
}
