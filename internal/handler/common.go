package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-gin-event-registration/internal/model"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

// Accepted layouts for datetime input, tried in order. Layouts without an
// offset are read in the configured location.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid request format: " + err.Error(),
		})
		return err
	}
	return nil
}

// okResponse is the acknowledgement returned by JSON mutations.
func okResponse(redirectURL string, key string, value interface{}) gin.H {
	body := gin.H{
		"status":       "ok",
		"redirect_url": redirectURL,
	}
	if key != "" {
		body[key] = value
	}
	return body
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidID
	}
	return id, nil
}

// parseOptionalID reads an optional id from a query or form value.
// Empty means no filter; anything but digits is invalid.
func parseOptionalID(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	if !isDigits(raw) {
		return nil, apperrors.ErrInvalidID
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}
	return &id, nil
}

func parseListParams(c *gin.Context) (model.ListParams, error) {
	params := model.ListParams{
		Search: strings.TrimSpace(c.Query("search")),
		Status: c.Query("status"),
		SortBy: c.Query("sort_by"),
	}
	if raw := c.Query("sort_order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			return model.ListParams{}, fmt.Errorf("%w: sort_order", apperrors.ErrInvalidInput)
		}
		params.SortDesc = order != 0
	}
	return params, nil
}

func parseDatetime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDatetime, raw)
}

func parseOptionalDatetime(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDatetime(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parsePrice accepts whole numbers, also written as decimals ("100.0").
func parsePrice(raw string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, apperrors.ErrInvalidPrice
	}
	return int(f), nil
}

// parseVisitorLimit accepts an empty value (no limit) or digits.
func parseVisitorLimit(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	if !isDigits(raw) {
		return nil, apperrors.ErrInvalidVisitorLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidVisitorLimit
	}
	return &limit, nil
}

func optionalString(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FlexInt decodes an integer sent as a JSON number or a numeric string.
// null and "" decode to no value.
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		f.Value = nil
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			f.Value = nil
			return nil
		}
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return fmt.Errorf("%w: %s is not an integer", apperrors.ErrInvalidInput, string(data))
	}
	v := int(n)
	f.Value = &v
	return nil
}

// RawAmount keeps a money amount as submitted. Numbers keep their text, null
// becomes "" and an absent field stays nil.
type RawAmount struct {
	Value *string
}

func (a *RawAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		empty := ""
		a.Value = &empty
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		a.Value = &s
	default:
		a.Value = &raw
	}
	return nil
}

func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrEventNotFound) ||
		errors.Is(err, apperrors.ErrVisitorNotFound) ||
		errors.Is(err, apperrors.ErrRegistrationNotFound)
}

func isValidation(err error) bool {
	for _, target := range []error{
		apperrors.ErrInvalidInput,
		apperrors.ErrInvalidID,
		apperrors.ErrInvalidStatus,
		apperrors.ErrInvalidPrice,
		apperrors.ErrInvalidVisitorLimit,
		apperrors.ErrInvalidBilledAmount,
		apperrors.ErrInvalidRefundAmount,
		apperrors.ErrInvalidDatetime,
		apperrors.ErrDuplicateRegistration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
