package handler

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"go-gin-event-registration/web"

	"github.com/gin-gonic/gin"
)

const (
	displayDatetimeLayout = "02.01.2006 15:04:05"
	inputDatetimeLayout   = "2006-01-02T15:04"
)

// NewTemplates parses the embedded page templates with the view helpers bound to loc.
func NewTemplates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs(loc)).ParseFS(web.Templates(), "templates/*.html")
}

func TemplateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"formatPrice":    formatPrice,
		"formatDatetime": func(v interface{}) string { return formatTime(v, loc, displayDatetimeLayout) },
		"inputDatetime":  func(v interface{}) string { return formatTime(v, loc, inputDatetimeLayout) },
		"buildURL":       buildURL,
		"sortLink":       sortLink,
	}
}

// formatPrice renders an amount in roubles; a missing amount reads as zero.
func formatPrice(v interface{}) string {
	var amount int
	switch p := v.(type) {
	case int:
		amount = p
	case *int:
		if p != nil {
			amount = *p
		}
	}
	return fmt.Sprintf("%.2f ₽", float64(amount))
}

func formatTime(v interface{}, loc *time.Location, layout string) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return ""
		}
		t = *tv
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(layout)
}

// buildURL appends key/value pairs as a query string, skipping empty values.
func buildURL(path string, pairs ...interface{}) string {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		value := fmt.Sprint(pairs[i+1])
		if value == "" || (value == "0" && key != "sort_order") {
			continue
		}
		values.Set(key, value)
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}

type sortLinkData struct {
	URL   string
	Label string
	Arrow string
}

// sortLink builds a column header link that keeps the current filters and
// flips the order when the column is already the sort key.
func sortLink(path, field, label string, page gin.H) sortLinkData {
	query := url.Values{}
	if q, ok := page["Query"].(url.Values); ok {
		for k, v := range q {
			query[k] = append([]string(nil), v...)
		}
	}

	order := 0
	arrow := ""
	if query.Get("sort_by") == field {
		current, _ := strconv.Atoi(query.Get("sort_order"))
		if current == 0 {
			order = 1
			arrow = " ▲"
		} else {
			arrow = " ▼"
		}
	}
	query.Set("sort_by", field)
	query.Set("sort_order", strconv.Itoa(order))

	return sortLinkData{
		URL:   path + "?" + query.Encode(),
		Label: label,
		Arrow: arrow,
	}
}
