package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/httpresp"
	"github.com/studioflow/shoot-scheduler/internal/middleware"
	"github.com/studioflow/shoot-scheduler/internal/timezone"
	ucBooking "github.com/studioflow/shoot-scheduler/internal/usecase/booking"
	"github.com/studioflow/shoot-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	listUC    *ucBooking.ListSlots
	requestUC *ucBooking.RequestSlots
	confirmUC *ucBooking.ConfirmSlot
	denyUC    *ucBooking.DenySlot
	toggleUC  *ucBooking.UpdateAvailability
	genUC     *ucBooking.GenerateSlots

	tz string
}

func NewSlotHandler(
	listUC *ucBooking.ListSlots,
	requestUC *ucBooking.RequestSlots,
	confirmUC *ucBooking.ConfirmSlot,
	denyUC *ucBooking.DenySlot,
	toggleUC *ucBooking.UpdateAvailability,
	genUC *ucBooking.GenerateSlots,
	tz string,
) *SlotHandler {
	return &SlotHandler{
		listUC:    listUC,
		requestUC: requestUC,
		confirmUC: confirmUC,
		denyUC:    denyUC,
		toggleUC:  toggleUC,
		genUC:     genUC,
		tz:        tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RequestSlotsRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	SlotIDs   []uint `json:"slot_ids" binding:"required"`
}

type ConfirmSlotRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
	SlotID    uint `json:"slot_id" binding:"required"`
}

type DenySlotRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
	SlotID    uint `json:"slot_id" binding:"required"`
}

type UpdateAvailabilityRequest struct {
	SlotIDs []uint `json:"slot_ids" binding:"required"`
	IsOpen  *bool  `json:"is_open" binding:"required"`
}

type GenerateSlotsRequest struct {
	TargetDate string `json:"target_date" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

// parseRange lê start_date/end_date (YYYY-MM-DD) e devolve a janela
// [start 00:00, end 24:00) no timezone do app.
func (h *SlotHandler) parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if !validators.IsDate(startStr) || !validators.IsDate(endStr) {
		httperr.BadRequest(c, "invalid_date_range", "start_date e end_date (YYYY-MM-DD) são obrigatórios.")
		return time.Time{}, time.Time{}, false
	}

	loc := timezone.Location(h.tz)
	start, _ := validators.ParseDateIn(startStr, loc)
	end, _ := validators.ParseDateIn(endStr, loc)
	end = end.Add(24*time.Hour - time.Second)

	if end.Before(start) {
		httperr.BadRequest(c, "invalid_date_range", "end_date antes de start_date.")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func actorFromContext(c *gin.Context) string {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	return strconv.FormatUint(uint64(userID), 10)
}

// ======================================================
// LIST
// ======================================================

func (h *SlotHandler) ListAvailable(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	slots, err := h.listUC.Available(c.Request.Context(), start, end)
	if err != nil {
		httperr.Internal(c, "slot_list_failed", "Erro ao listar slots.")
		return
	}

	httpresp.List(c, slots)
}

func (h *SlotHandler) ListAll(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	slots, err := h.listUC.All(c.Request.Context(), start, end)
	if err != nil {
		httperr.Internal(c, "slot_list_failed", "Erro ao listar slots.")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// REQUEST (center)
// ======================================================

func (h *SlotHandler) Request(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req RequestSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	err := h.requestUC.Execute(c.Request.Context(), ucBooking.RequestSlotsInput{
		ProjectID: req.ProjectID,
		SlotIDs:   req.SlotIDs,
		UserID:    userID,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Schedule request successful"})
}

// ======================================================
// CONFIRM / DENY (admin)
// ======================================================

func (h *SlotHandler) Confirm(c *gin.Context) {
	var req ConfirmSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	err := h.confirmUC.Execute(
		c.Request.Context(),
		req.ProjectID,
		req.SlotID,
		actorFromContext(c),
	)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Schedule confirmed successfully"})
}

func (h *SlotHandler) Deny(c *gin.Context) {
	var req DenySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	err := h.denyUC.Execute(
		c.Request.Context(),
		req.ProjectID,
		req.SlotID,
		actorFromContext(c),
	)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Schedule request denied"})
}

// ======================================================
// AVAILABILITY TOGGLE (admin)
// ======================================================

func (h *SlotHandler) UpdateAvailability(c *gin.Context) {
	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	updated, err := h.toggleUC.Execute(
		c.Request.Context(),
		req.SlotIDs,
		*req.IsOpen,
		actorFromContext(c),
	)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"updated": updated})
}

// ======================================================
// GENERATION
// ======================================================

func (h *SlotHandler) Generate(c *gin.Context) {
	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "target_date (YYYY-MM-DD) é obrigatório.")
		return
	}

	created, err := h.genUC.Execute(
		c.Request.Context(),
		req.TargetDate,
		actorFromContext(c),
	)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"date": req.TargetDate, "created": created})
}

// GenerateDaily é chamado pelo agendador externo com o FUNCTION_SECRET;
// não há identidade de usuário aqui.
func (h *SlotHandler) GenerateDaily(c *gin.Context) {
	date, created, err := h.genUC.ExecuteDaily(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"date": date, "created": created})
}
