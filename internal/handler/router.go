package handler

import (
	"html/template"
	"net/http"

	"go-gin-event-registration/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouteRegistrar interface {
	RegisterRoutes(r *gin.Engine)
}

// NewRouter builds the engine with the shared middleware, page templates,
// static assets and the routes of every registrar.
func NewRouter(templates *template.Template, registrars ...RouteRegistrar) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Recovery())
	r.Use(cors.Default())

	r.SetHTMLTemplate(templates)
	r.StaticFS("/static", http.FS(web.Static()))

	for _, registrar := range registrars {
		registrar.RegisterRoutes(r)
	}

	return r
}
