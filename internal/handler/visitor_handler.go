package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go-gin-event-registration/internal/model"
	"go-gin-event-registration/internal/service"

	"github.com/gin-gonic/gin"
)

type VisitorHandler struct {
	service service.VisitorService
}

func NewVisitorHandler(service service.VisitorService) *VisitorHandler {
	return &VisitorHandler{service: service}
}

func (h *VisitorHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/visitors")
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

type UpdateVisitorRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
}

func (r UpdateVisitorRequest) params() model.VisitorParams {
	var email *string
	if r.Email != nil {
		email = optionalString(strings.TrimSpace(*r.Email))
	}
	return model.VisitorParams{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Phone:     strings.TrimSpace(r.Phone),
		Email:     email,
	}
}

func (h *VisitorHandler) List(c *gin.Context) {
	eventID, err := parseOptionalID(c.Query("event_id"))
	if err != nil {
		handleError(c, fmt.Errorf("%w: event_id", err), "List")
		return
	}
	params, err := parseListParams(c)
	if err != nil {
		handleError(c, err, "List")
		return
	}

	visitors, err := h.service.List(c, model.VisitorFilter{ListParams: params, EventID: eventID})
	if err != nil {
		handleError(c, err, "List")
		return
	}

	c.HTML(http.StatusOK, "visitor_list.html", gin.H{
		"Title":    "Visitors",
		"Visitors": visitors,
		"Search":   params.Search,
		"EventID":  c.Query("event_id"),
		"Query":    c.Request.URL.Query(),
	})
}

func (h *VisitorHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "visitor_create.html", gin.H{
		"Title": "New visitor",
	})
}

func (h *VisitorHandler) Create(c *gin.Context) {
	req := UpdateVisitorRequest{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Phone:     c.PostForm("phone"),
	}
	if email, ok := c.GetPostForm("email"); ok {
		req.Email = &email
	}

	visitor, err := h.service.Create(c, req.params())
	if err != nil {
		handleError(c, err, "Create")
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/visitors/%d", visitor.ID))
}

func (h *VisitorHandler) Detail(c *gin.Context) {
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

	c.HTML(http.StatusOK, "visitor_view.html", gin.H{
		"Title":  detail.Visitor.FullName(),
		"Detail": detail,
	})
}

func (h *VisitorHandler) UpdateForm(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	visitor, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "UpdateForm")
		return
	}

	c.HTML(http.StatusOK, "visitor_update.html", gin.H{
		"Title":   "Edit " + visitor.FullName(),
		"Visitor": visitor,
	})
}

func (h *VisitorHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	var req UpdateVisitorRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	visitor, err := h.service.Update(c, id, req.params())
	if err != nil {
		handleError(c, err, "Update")
		return
	}

	c.JSON(http.StatusOK, okResponse(fmt.Sprintf("/visitors/%d", visitor.ID), "visitor", visitor))
}

func (h *VisitorHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err, "Delete")
		return
	}

	if err := h.service.Delete(c, id); err != nil {
		handleError(c, err, "Delete")
		return
	}

	c.JSON(http.StatusOK, okResponse("/visitors/", "", nil))
}
