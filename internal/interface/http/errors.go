package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
	"github.com/oksasatya/blogx-api/pkg/response"
)

// Error codes exposed in error.code.
const (
	CodeBadRequest      = "bad_request"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeUpstreamFailure = "upstream_failure"
	CodeInternal        = "internal"
)

// classify maps an error to status, body and message.
func classify(err error) (int, response.ErrorBody, string) {
	var denial *policy.DenialError
	if errors.As(err, &denial) {
		switch denial {
		case policy.ErrUnauthenticated:
			return http.StatusUnauthorized, response.ErrorBody{Code: CodeUnauthorized, Reason: denial.Code}, denial.Message
		case policy.ErrAlreadyLiked:
			return http.StatusConflict, response.ErrorBody{Code: CodeConflict, Reason: denial.Code}, denial.Message
		case policy.ErrMissingResource, policy.ErrUnknownAction:
			return http.StatusInternalServerError, response.ErrorBody{Code: CodeInternal}, "internal server error"
		}
		return http.StatusForbidden, response.ErrorBody{
			Code:      CodeForbidden,
			Reason:    denial.Code,
			IsBlocked: denial == policy.ErrAccountBlocked,
		}, denial.Message
	}

	switch {
	case errors.Is(err, application.ErrInvalidID),
		errors.Is(err, application.ErrMissingField),
		errors.Is(err, application.ErrInvalidImage):
		return http.StatusBadRequest, response.ErrorBody{Code: CodeBadRequest}, err.Error()
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidSession):
		return http.StatusUnauthorized, response.ErrorBody{Code: CodeUnauthorized}, err.Error()
	case errors.Is(err, application.ErrAccountNotFound):
		return http.StatusNotFound, response.ErrorBody{Code: CodeNotFound}, application.ErrAccountNotFound.Error()
	case errors.Is(err, application.ErrPostNotFound):
		return http.StatusNotFound, response.ErrorBody{Code: CodeNotFound}, application.ErrPostNotFound.Error()
	case errors.Is(err, application.ErrCommentNotFound):
		return http.StatusNotFound, response.ErrorBody{Code: CodeNotFound}, application.ErrCommentNotFound.Error()
	case errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict, response.ErrorBody{Code: CodeConflict}, application.ErrEmailTaken.Error()
	case errors.Is(err, application.ErrImageUpload):
		return http.StatusBadGateway, response.ErrorBody{Code: CodeUpstreamFailure}, application.ErrImageUpload.Error()
	case errors.Is(err, application.ErrIdentityProvider):
		return http.StatusBadGateway, response.ErrorBody{Code: CodeUpstreamFailure}, application.ErrIdentityProvider.Error()
	case errors.Is(err, application.ErrSearchUnavailable):
		return http.StatusBadGateway, response.ErrorBody{Code: CodeUpstreamFailure}, application.ErrSearchUnavailable.Error()
	}
	return http.StatusInternalServerError, response.ErrorBody{Code: CodeInternal}, "internal server error"
}

// fail writes the error response for err. Internal and upstream failures are logged.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, body, msg := classify(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, status, msg, body)
}

func badRequest(c *gin.Context, message string, details map[string]string) {
	response.Error[any](c, http.StatusBadRequest, message, response.ErrorBody{Code: CodeBadRequest, Details: details})
}
