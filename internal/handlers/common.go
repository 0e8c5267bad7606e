// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/imob-backoffice/internal/i18n"
	"github.com/javajoker/imob-backoffice/internal/services"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

// respondError is the single place where service errors become HTTP status
// codes. Unknown errors are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var fieldErrors *services.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		utils.ValidationErrorResponse(c, fieldErrors.Fields)
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), nil)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, "")
	case errors.Is(err, services.ErrNoBranch):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthNoBranch))
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "")
	case errors.Is(err, services.ErrHasDependents):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyHasDependents))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, "")
	default:
		logrus.WithError(err).
			WithField("method", c.Request.Method).
			WithField("path", c.FullPath()).
			Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

// parseID reads the :id path parameter, answering 400 itself when it is not
// a UUID.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationID), nil)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body, answering 400 itself on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// listQuery collects pagination parameters and the named filters from the
// query string. Empty filters are left out.
func listQuery(c *gin.Context, filters ...string) services.ListQuery {
	q := services.ListQuery{
		PaginationParams: utils.GetPaginationParams(c),
		Filters:          make(map[string]string, len(filters)),
	}
	for _, name := range filters {
		if v := c.Query(name); v != "" {
			q.Filters[name] = v
		}
	}
	return q
}

func respondList(c *gin.Context, result *utils.PaginationResult, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, *result)
}

// formUpload opens the multipart "file" field.
func formUpload(c *gin.Context) (*services.Upload, func(), bool) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissing), nil)
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalid), nil)
		return nil, nil, false
	}

	upload := &services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}
	return upload, func() { file.Close() }, true
}

func deleted(c *gin.Context) {
	c.JSON(http.StatusOK, utils.MessageResponse{
		Message: i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
