package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/utils"
)

type TableController struct {
	Scheduler *scheduling.Scheduler
	Hub       *hub.Hub
}

func NewTableController(s *scheduling.Scheduler, h *hub.Hub) *TableController {
	return &TableController{Scheduler: s, Hub: h}
}

// CreateTable -> adds a table to the floor plan
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int    `json:"number"`
		Capacity int    `json:"capacity"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	table, err := tc.Scheduler.CreateTable(c.Request.Context(), scheduling.TableSpec{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	tc.Hub.Broadcast(hub.EventTableCreated, table)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> lists every table by number
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Scheduler.ListTables(c.Request.Context())
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}
