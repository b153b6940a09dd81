package v1

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/shenikar/geo_mesh_sync/internal/service LocationService,IncidentService,SyncEngine

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/geo_mesh_sync/internal/config"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	locationService service.LocationService
	incidentService service.IncidentService
	engine          service.SyncEngine
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(locationService service.LocationService, incidentService service.IncidentService, engine service.SyncEngine, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		locationService: locationService,
		incidentService: incidentService,
		engine:          engine,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// statusFor сопоставляет ошибку сервиса с HTTP-статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// @Summary Report a location fix
// @Description Offer a sensor fix to the best-fix selector. An accepted fix is stored, exported and broadcast to peers. Requires API key.
// @Tags Location
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param fix body ReportFixRequest true "Location fix"
// @Success 201 {object} FixResponse "Fix accepted"
// @Success 200 {object} FixResponse "Fix rejected by selector"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /fixes [post]
func (h *Handler) reportFix(c *gin.Context) {
	var input ReportFixRequest
	log := h.logger.WithField("method", "reportFix")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.locationService.ReportFix(c.Request.Context(), DTOToFix(input, time.Now()))
	if err != nil {
		log.WithError(err).Error("Failed to report fix in service")
		c.JSON(statusFor(err), gin.H{"error": "failed to report fix"})
		return
	}

	status := http.StatusOK
	if result.Accepted {
		status = http.StatusCreated
	}
	c.JSON(status, FixResultToResponse(result))
}

// @Summary Get location record by ID
// @Description Get a stored location record. Requires API key.
// @Tags Location
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Location ID"
// @Success 200 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid location ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Location not found"
// @Router /locations/{id} [get]
func (h *Handler) getLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "getLocation").WithField("id", id)

	rec, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get location from service")
		c.JSON(statusFor(err), gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToLocationResponse(rec))
}

// @Summary Create a new incident
// @Description Create an incident on this device and broadcast it to peers. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.incidentService.CreateIncident(c.Request.Context(), DTOToNewIncident(input))
	if err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		status := statusFor(err)
		msg := "internal server error"
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(rec))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(statusFor(err), gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Scan the exchange inbox
// @Description Import new exchange files from the inbox directory right away. Requires API key.
// @Tags Sync
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.ScanReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sync/inbox [post]
func (h *Handler) scanInbox(c *gin.Context) {
	log := h.logger.WithField("method", "scanInbox")

	report, err := h.engine.ScanInbox(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to scan inbox")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Get sync engine status
// @Description Channel counters, ingest results, repeater cycles, import totals and loop liveness
// @Tags System
// @Produce json
// @Success 200 {object} service.EngineStatus
// @Router /system/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Failure 503 {object} map[string]string "Sync engine is not running"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if !h.engine.Status().Running {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "stopped"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
