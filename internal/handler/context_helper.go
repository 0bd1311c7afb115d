package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/middleware"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

// wantsJSON reports whether the client is an API consumer rather than a
// browser form.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}

func bindForm(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBind(dest); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid form submission: "+err.Error())
	}
	return nil
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// FormResponder implements post/redirect/get for browser clients and plain
// JSON for API clients.
type FormResponder struct {
	flash  *middleware.Flash
	logger *zap.Logger
}

// NewFormResponder builds a responder. A nil flash skips confirmation notices.
func NewFormResponder(flash *middleware.Flash, logger *zap.Logger) FormResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return FormResponder{flash: flash, logger: logger}
}

func (r FormResponder) show(c *gin.Context, view *dto.FormView) {
	if r.flash != nil {
		view.Notice = r.flash.Pop(c)
	}
	response.JSON(c, http.StatusOK, view)
}

func (r FormResponder) saved(c *gin.Context, redirect, message string, payload interface{}) {
	if wantsJSON(c) {
		response.Created(c, payload)
		return
	}
	if r.flash != nil {
		if err := r.flash.Set(c, dto.Notice{Level: "success", Message: message}); err != nil {
			r.logger.Warn("set flash failed", zap.Error(err))
		}
	}
	c.Redirect(http.StatusSeeOther, redirect)
}

// rejected redisplays the form with the submitted values for user errors.
// Storage failures abort the request instead.
func (r FormResponder) rejected(c *gin.Context, view *dto.FormView, form interface{}, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		r.logger.Error("form submission failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, appErr)
		return
	}
	view.Form = form
	response.Form(c, view, appErr)
}
