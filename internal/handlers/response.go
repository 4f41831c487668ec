package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	applog "order_manager/internal/logger"
	"order_manager/internal/services"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Validation errors are keyed by the JSON name the client sent.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// respondError maps service errors onto HTTP statuses. Unknown errors are logged and hidden.
func respondError(c *gin.Context, funcName string, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindInvalid:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		applog.LogError(applog.Get(), "handlers", funcName, c.Request.Method+" "+c.FullPath(), c.Params, err)
		c.JSON(status, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// respondBindError reports which fields failed validation, or a generic message for malformed JSON.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"errors":  validationErrors(verrs),
		})
		return
	}
	respondBadRequest(c, "Invalid request format")
}

func validationErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	return parseUint(c, c.Param(name), name)
}

func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	return parseUint(c, c.Query(name), name)
}

func parseUint(c *gin.Context, raw, name string) (uint, bool) {
	if raw == "" {
		respondBadRequest(c, name+" is required")
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		respondBadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

func wantsXLSX(c *gin.Context) bool {
	return strings.EqualFold(c.Query("format"), "xlsx")
}

func writeXLSX(c *gin.Context, filename string, write func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		respondError(c, "writeXLSX", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
