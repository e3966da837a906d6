package handlers

import (
	"errors"
	"net/http"

	"fireplace_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK               = "ok"
	statusOnRequested      = "on_requested"
	statusOffRequested     = "off_requested"
	statusFlameRequested   = "flame_requested"
	statusRefreshRequested = "refresh_requested"

	errSetPower        = "failed to switch fireplace"
	errSetFlame        = "failed to set flame"
	errGetState        = "failed to load state"
	errNoSnapshot      = "fireplace state not known yet"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, code int, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(code, resp)
}

// Request DTO for switching the fireplace.
type powerRequest struct {
	On *bool `json:"on" binding:"required"`
}

// Request DTO for the flame level; percent 0 is valid, hence the pointer.
type flameRequest struct {
	Percent *int `json:"percent" binding:"required"`
}

// SetPowerRequest is an exported model for Swagger docs of the setPower payload.
type SetPowerRequest struct {
	// true starts the fireplace, false stops it
	On bool `json:"on" example:"true"`
}

// SetFlameRequest is an exported model for Swagger docs of the setFlame payload.
type SetFlameRequest struct {
	// Flame intensity 0..100; mapped to the nearest of six levels
	Percent int `json:"percent" example:"50"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get fireplace state
// @Description  Normalized state from the last successful poll. "stale" is set when served from storage before the first poll succeeded.
// @Tags         fireplace
// @Produce      json
// @Success      200  {object}  models.FireplaceState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/fireplace/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoSnapshot})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "fireplace_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Turn fireplace on
// @Description  Sends ButtonStart unless the fireplace is already burning or cooling down.
// @Tags         fireplace
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, result, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/fireplace/on [post]
// @Security     BearerAuth
func (h *Handler) turnOn(c *gin.Context) {
	h.switchPower(c, true)
}

// @Summary      Turn fireplace off
// @Tags         fireplace
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, result, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/fireplace/off [post]
// @Security     BearerAuth
func (h *Handler) turnOff(c *gin.Context) {
	h.switchPower(c, false)
}

// @Summary      Switch fireplace
// @Tags         fireplace
// @Accept       json
// @Produce      json
// @Param        body  body   SetPowerRequest  true  "Power payload"
// @Success      200   {object}  map[string]interface{}  "status, result, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/fireplace/power [post]
// @Security     BearerAuth
func (h *Handler) setPower(c *gin.Context) {
	var req powerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.switchPower(c, *req.On)
}

func (h *Handler) switchPower(c *gin.Context, on bool) {
	res, err := h.services.Fireplace.SetOn(c.Request.Context(), on)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetPower, "fireplace_set_on_failed", err, "on", on)
		return
	}
	status := statusOffRequested
	if on {
		status = statusOnRequested
	}
	h.respondWithStatusAndState(c, http.StatusOK, status, gin.H{"result": res})
}

// @Summary      Set flame
// @Description  Steps the flame toward the requested percentage. Best effort: the next poll shows what the fireplace did.
// @Tags         fireplace
// @Accept       json
// @Produce      json
// @Param        body  body   SetFlameRequest  true  "Flame payload"
// @Success      200   {object}  map[string]interface{}  "status, result, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/fireplace/flame [post]
// @Security     BearerAuth
func (h *Handler) setFlame(c *gin.Context) {
	var req flameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	res, err := h.services.Fireplace.SetFlamePercent(c.Request.Context(), *req.Percent)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrContractViolation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNoSnapshot):
		c.JSON(http.StatusConflict, gin.H{"error": errNoSnapshot})
		return
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSetFlame, "fireplace_set_flame_failed", err, "percent", *req.Percent)
		return
	}
	h.respondWithStatusAndState(c, http.StatusOK, statusFlameRequested, gin.H{"result": res})
}

// @Summary      Refresh state
// @Description  Requests a poll outside the regular cadence.
// @Tags         fireplace
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/fireplace/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	h.services.Poller.Trigger()
	c.JSON(http.StatusAccepted, gin.H{"status": statusRefreshRequested})
}
