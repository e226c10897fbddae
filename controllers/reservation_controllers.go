package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/utils"
)

type ReservationController struct {
	Scheduler *scheduling.Scheduler
	Hub       *hub.Hub
}

func NewReservationController(s *scheduling.Scheduler, h *hub.Hub) *ReservationController {
	return &ReservationController{Scheduler: s, Hub: h}
}

type createReservationRequest struct {
	ClientName  string  `json:"client_name"`
	Contact     string  `json:"contact"`
	TableNumber int     `json:"table_number"`
	PartySize   int     `json:"party_size"`
	StartTime   string  `json:"start_time"`
	Notes       *string `json:"notes"`
}

type updateReservationRequest struct {
	ClientName  *string `json:"client_name"`
	Contact     *string `json:"contact"`
	TableNumber *int    `json:"table_number"`
	PartySize   *int    `json:"party_size"`
	StartTime   *string `json:"start_time"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
}

// CreateReservation -> books a table
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := rc.Scheduler.CreateReservation(c.Request.Context(), scheduling.CreateReservationRequest{
		ClientName:  req.ClientName,
		Contact:     req.Contact,
		TableNumber: req.TableNumber,
		PartySize:   req.PartySize,
		StartTime:   req.StartTime,
		Notes:       req.Notes,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	rc.Hub.Broadcast(hub.EventReservationCreated, res)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", res)
}

// GetReservations -> lists reservations, filtered by client, table, status and day
func (rc *ReservationController) GetReservations(c *gin.Context) {
	filter := scheduling.ListFilter{
		Client: c.Query("client"),
		Status: models.ReservationStatus(strings.TrimSpace(c.Query("status"))),
		Day:    c.Query("day"),
	}
	if raw := strings.TrimSpace(c.Query("table")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondBadRequest(c, errors.New("table must be a positive integer"))
			return
		}
		filter.TableNumber = n
	}

	reservations, err := rc.Scheduler.ListReservations(c.Request.Context(), filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID -> one reservation with its current status
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	res, err := rc.Scheduler.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation found", res)
}

// UpdateReservation -> partial update; status "cancelado" cancels
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := rc.Scheduler.UpdateReservation(c.Request.Context(), c.Param("id"), scheduling.ReservationPatch{
		ClientName:  req.ClientName,
		Contact:     req.Contact,
		TableNumber: req.TableNumber,
		PartySize:   req.PartySize,
		StartTime:   req.StartTime,
		Notes:       req.Notes,
		Status:      req.Status,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	rc.Hub.Broadcast(updateEvent(req.Status), res)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated successfully", res)
}

// CancelReservation -> marks the reservation cancelled, the record is kept
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	res, err := rc.Scheduler.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	rc.Hub.Broadcast(hub.EventReservationCancelled, res)
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled successfully", res)
}

// updateEvent names the board event for a patch. Only a patch that asks for
// cancellation is a cancel; edits to an already cancelled reservation are
// plain updates.
func updateEvent(status *string) string {
	if status != nil && models.ReservationStatus(strings.TrimSpace(*status)) == models.StatusCancelled {
		return hub.EventReservationCancelled
	}
	return hub.EventReservationUpdated
}
