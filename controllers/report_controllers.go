package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/table-reservation/reports"
	"github.com/yeremiapane/table-reservation/scheduling"
)

type ReportController struct {
	Scheduler *scheduling.Scheduler
}

func NewReportController(s *scheduling.Scheduler) *ReportController {
	return &ReportController{Scheduler: s}
}

// DailySheet -> PDF of one day's reservations grouped by table. The day
// defaults to today in the venue location.
func (rc *ReportController) DailySheet(c *gin.Context) {
	ctx := c.Request.Context()
	now := rc.Scheduler.Now()
	day := strings.TrimSpace(c.Query("day"))
	if day == "" {
		day = now.In(rc.Scheduler.Location()).Format("2006-01-02")
	}

	reservations, err := rc.Scheduler.ListReservations(ctx, scheduling.ListFilter{Day: day})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	tables, err := rc.Scheduler.ListTables(ctx)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	var buf bytes.Buffer
	err = reports.WriteDailySheet(&buf, reports.DailySheet{
		Day:             day,
		Location:        rc.Scheduler.Location(),
		DurationMinutes: rc.Scheduler.DurationMinutes(),
		GeneratedAt:     now,
		Tables:          tables,
		Reservations:    reservations,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservations-%s.pdf"`, day))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
