package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fail writes err as an error response. This is the only place where
// service error kinds become HTTP statuses.
func fail(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Err: err}
	}

	switch se.Kind {
	case service.KindValidation:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, se.Message)
	case service.KindNotFound:
		util.Error(c, http.StatusNotFound, util.CodeNotFound, se.Message)
	case service.KindAuth:
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, se.Message)
	case service.KindForbidden:
		util.Error(c, http.StatusForbidden, util.CodeForbidden, se.Message)
	case service.KindConflict:
		util.Error(c, http.StatusConflict, util.CodeConflict, se.Message)
	default:
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}

// badRequest answers a binding or parsing failure.
func badRequest(c *gin.Context, err error) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, bindMessage(err))
}

// bindMessage turns validator errors into one readable sentence.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "uuid":
		return field + " must be a UUID"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// jsonFieldName drops the struct name from a namespace like
// "createInvoiceReq.Items[0].ProductID" and lowercases the first letter of
// each segment.
func jsonFieldName(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	s := strings.Join(parts, ".")
	return strings.ReplaceAll(s, "ID", "Id")
}

// listParams reads page, limit and search from the query string.
func listParams(c *gin.Context, defaultLimit int) service.ListParams {
	p := service.ListParams{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", defaultLimit),
	}
	return p
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
