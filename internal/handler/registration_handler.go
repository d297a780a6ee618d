package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/service"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service  service.RegistrationService
	events   service.EventService
	visitors service.VisitorService
	loc      *time.Location
}

func NewRegistrationHandler(
	service service.RegistrationService,
	events service.EventService,
	visitors service.VisitorService,
	loc *time.Location,
) *RegistrationHandler {
	return &RegistrationHandler{
		service:  service,
		events:   events,
		visitors: visitors,
		loc:      loc,
	}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/registrations")
	{
		router.GET("/", h.List)
		router.GET("/create/", h.CreateForm)
		router.POST("/create/", h.Create)
		router.GET("/:id", h.Detail)
		router.GET("/:id/update/", h.UpdateForm)
		router.PUT("/:id/update/", h.Update)
		router.DELETE("/:id/delete/", h.Delete)
	}
}

// UpdateRegistrationRequest carries amounts as submitted; parsing them is
// left to the service so both amounts report their own validation error.
type UpdateRegistrationRequest struct {
	Status       model.RegistrationStatus `json:"status"`
	BilledAmount RawAmount                `json:"billed_amount"`
	RefundAmount RawAmount                `json:"refund_amount"`
	BilledAt     *string                  `json:"billed_at"`
	RefundedAt   *string                  `json:"refunded_at"`
}

func (h *RegistrationHandler) List(c *gin.Context) {
	eventID, err := parseOptionalID(c.Query("event_id"))
	if err != nil {
		handleError(c, fmt.Errorf("%w: event_id", err), "List")
		return
	}
	visitorID, err := parseOptionalID(c.Query("visitor_id"))
	if err != nil {
		handleError(c, fmt.Errorf("%w: visitor_id", err), "List")
		return
	}
	params, err := parseListParams(c)
	if err != nil {
		handleError(c, err, "List")
		return
	}

	registrations, err := h.service.List(c, model.RegistrationFilter{
		ListParams: params,
		EventID:    eventID,
		VisitorID:  visitorID,
	})
	if err != nil {
		handleError(c, err, "List")
		return
	}

	events, err := h.events.List(c, model.EventFilter{})
	if err != nil {
		handleError(c, err, "List")
		return
	}
	visitors, err := h.visitors.List(c, model.VisitorFilter{})
	if err != nil {
		handleError(c, err, "List")
		return
	}

	c.HTML(http.StatusOK, "registration_list.html", gin.H{
		"Title":         "Registrations",
		"Registrations": registrations,
		"Events":        events,
		"Visitors":      visitors,
		"Statuses":      model.RegistrationStatuses,
		"Search":        params.Search,
		"Status":        params.Status,
		"EventID":       c.Query("event_id"),
		"VisitorID":     c.Query("visitor_id"),
		"Query":         c.Request.URL.Query(),
	})
}

func (h *RegistrationHandler) CreateForm(c *gin.Context) {
	events, err := h.events.ListOpenForRegistration(c)
	if err != nil {
		handleError(c, err, "CreateForm")
		return
	}
	visitors, err := h.visitors.List(c, model.VisitorFilter{})
	if err != nil {
		handleError(c, err, "CreateForm")
		return
	}

	c.HTML(http.StatusOK, "registration_create.html", gin.H{
		"Title":     "New registration",
		"Events":    events,
		"Visitors":  visitors,
		"EventID":   c.Query("event_id"),
		"VisitorID": c.Query("visitor_id"),
	})
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	eventID, err := strconv.Atoi(strings.TrimSpace(c.PostForm("event_id")))
	if err != nil {
		handleError(c, fmt.Errorf("%w: event_id", apperrors.ErrInvalidID), "Create")
		return
	}
	visitorID, err := strconv.Atoi(strings.TrimSpace(c.PostForm("visitor_id")))
	if err != nil {
		handleError(c, fmt.Errorf("%w: visitor_id", apperrors.ErrInvalidID), "Create")
		return
	}

	if _, err := h.service.Create(c, eventID, visitorID); err != nil {
		handleError(c, err, "Create")
		return
	}

	c.Redirect(http.StatusSeeOther, "/registrations/")
}

func (h *RegistrationHandler) Detail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Detail")
		return
	}

	registration, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "Detail")
		return
	}

	c.HTML(http.StatusOK, "registration_view.html", gin.H{
		"Title":        fmt.Sprintf("Registration #%d", registration.ID),
		"Registration": registration,
	})
}

func (h *RegistrationHandler) UpdateForm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	registration, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	c.HTML(http.StatusOK, "registration_update.html", gin.H{
		"Title":        fmt.Sprintf("Edit registration #%d", registration.ID),
		"Registration": registration,
		"Statuses":     model.RegistrationStatuses,
	})
}

func (h *RegistrationHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	var req UpdateRegistrationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	billedAt, err := parseOptionalDatetime(req.BilledAt, h.loc)
	if err != nil {
		handleError(c, err, "Update")
		return
	}
	refundedAt, err := parseOptionalDatetime(req.RefundedAt, h.loc)
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	registration, err := h.service.Update(c, id, model.UpdateRegistrationParams{
		Status:       req.Status,
		BilledAmount: req.BilledAmount.Value,
		RefundAmount: req.RefundAmount.Value,
		BilledAt:     billedAt,
		RefundedAt:   refundedAt,
	})
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	c.JSON(http.StatusOK, okResponse("/registrations/", "registration", registration))
}

func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Delete")
		return
	}

	if err := h.service.Delete(c, id); err != nil {
		handleError(c, err, "Delete")
		return
	}

	c.JSON(http.StatusOK, okResponse("/registrations/", "", nil))
}
