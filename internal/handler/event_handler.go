package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/service"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
	loc     *time.Location
}

func NewEventHandler(service service.EventService, loc *time.Location) *EventHandler {
	return &EventHandler{service: service, loc: loc}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/events")
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

// UpdateEventRequest is the full event as the update page submits it.
type UpdateEventRequest struct {
	Title        string            `json:"title"`
	Status       model.EventStatus `json:"status"`
	Description  *string           `json:"description"`
	StartAt      string            `json:"start_at"`
	Location     string            `json:"location"`
	EndAt        string            `json:"end_at"`
	Price        FlexInt           `json:"price"`
	VisitorLimit FlexInt           `json:"visitor_limit"`
}

func (h *EventHandler) List(c *gin.Context) {
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

	events, err := h.service.List(c, model.EventFilter{ListParams: params, VisitorID: visitorID})
	if err != nil {
		handleError(c, err, "List")
		return
	}

	c.HTML(http.StatusOK, "event_list.html", gin.H{
		"Title":     "Events",
		"Events":    events,
		"Statuses":  model.EventStatuses,
		"Search":    params.Search,
		"Status":    params.Status,
		"VisitorID": c.Query("visitor_id"),
		"Query":     c.Request.URL.Query(),
	})
}

func (h *EventHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "event_create.html", gin.H{
		"Title":    "New event",
		"Statuses": model.EventStatuses,
	})
}

func (h *EventHandler) Create(c *gin.Context) {
	params, err := h.formParams(c)
	if err != nil {
		handleError(c, err, "Create")
		return
	}

	event, err := h.service.Create(c, params)
	if err != nil {
		handleError(c, err, "Create")
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/events/%d", event.ID))
}

func (h *EventHandler) Detail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Detail")
		return
	}

	detail, err := h.service.GetDetail(c, id)
	if err != nil {
		handleError(c, err, "Detail")
		return
	}

	c.HTML(http.StatusOK, "event_view.html", gin.H{
		"Title":  detail.Event.Title,
		"Detail": detail,
	})
}

func (h *EventHandler) UpdateForm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	event, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	c.HTML(http.StatusOK, "event_update.html", gin.H{
		"Title":    "Edit " + event.Title,
		"Event":    event,
		"Statuses": model.EventStatuses,
	})
}

func (h *EventHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params, err := h.requestParams(req)
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	event, err := h.service.Update(c, id, params)
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	c.JSON(http.StatusOK, okResponse(fmt.Sprintf("/events/%d", event.ID), "event", event))
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Delete")
		return
	}

	if err := h.service.Delete(c, id); err != nil {
		handleError(c, err, "Delete")
		return
	}

	c.JSON(http.StatusOK, okResponse("/events/", "", nil))
}

func (h *EventHandler) formParams(c *gin.Context) (model.EventParams, error) {
	limit, err := parseVisitorLimit(strings.TrimSpace(c.PostForm("visitor_limit")))
	if err != nil {
		return model.EventParams{}, err
	}
	price, err := parsePrice(c.DefaultPostForm("price", "0"))
	if err != nil {
		return model.EventParams{}, err
	}
	startAt, err := parseDatetime(c.PostForm("start_at"), h.loc)
	if err != nil {
		return model.EventParams{}, err
	}
	endAt, err := parseDatetime(c.PostForm("end_at"), h.loc)
	if err != nil {
		return model.EventParams{}, err
	}

	status := model.EventStatus(c.PostForm("status"))
	if status == "" {
		status = model.EventStatusPlanning
	}

	return model.EventParams{
		Title:        strings.TrimSpace(c.PostForm("title")),
		Status:       status,
		Description:  optionalString(c.PostForm("description")),
		StartAt:      startAt,
		Location:     strings.TrimSpace(c.PostForm("location")),
		EndAt:        endAt,
		Price:        price,
		VisitorLimit: limit,
	}, nil
}

func (h *EventHandler) requestParams(req UpdateEventRequest) (model.EventParams, error) {
	if req.Price.Value == nil {
		return model.EventParams{}, apperrors.ErrInvalidPrice
	}
	startAt, err := parseDatetime(req.StartAt, h.loc)
	if err != nil {
		return model.EventParams{}, err
	}
	endAt, err := parseDatetime(req.EndAt, h.loc)
	if err != nil {
		return model.EventParams{}, err
	}

	var description *string
	if req.Description != nil {
		description = optionalString(*req.Description)
	}

	return model.EventParams{
		Title:        strings.TrimSpace(req.Title),
		Status:       req.Status,
		Description:  description,
		StartAt:      startAt,
		Location:     strings.TrimSpace(req.Location),
		EndAt:        endAt,
		Price:        *req.Price.Value,
		VisitorLimit: req.VisitorLimit.Value,
	}, nil
}
