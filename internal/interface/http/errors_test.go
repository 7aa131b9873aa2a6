package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		reason  string
		blocked bool
	}{
		{policy.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized, "unauthenticated", false},
		{policy.ErrAccountBlocked, http.StatusForbidden, CodeForbidden, "account_blocked", true},
		{policy.ErrNotOwner, http.StatusForbidden, CodeForbidden, "not_owner", false},
		{policy.ErrCannotBlockAdmin, http.StatusForbidden, CodeForbidden, "cannot_block_admin", false},
		{policy.ErrAlreadyLiked, http.StatusConflict, CodeConflict, "already_liked", false},
		{policy.ErrUnknownAction, http.StatusInternalServerError, CodeInternal, "", false},
		{application.ErrInvalidID, http.StatusBadRequest, CodeBadRequest, "", false},
		{fmt.Errorf("%w: title", application.ErrMissingField), http.StatusBadRequest, CodeBadRequest, "", false},
		{application.ErrInvalidImage, http.StatusBadRequest, CodeBadRequest, "", false},
		{application.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized, "", false},
		{application.ErrPostNotFound, http.StatusNotFound, CodeNotFound, "", false},
		{application.ErrCommentNotFound, http.StatusNotFound, CodeNotFound, "", false},
		{application.ErrEmailTaken, http.StatusConflict, CodeConflict, "", false},
		{fmt.Errorf("%w: bucket", application.ErrImageUpload), http.StatusBadGateway, CodeUpstreamFailure, "", false},
		{application.ErrSearchUnavailable, http.StatusBadGateway, CodeUpstreamFailure, "", false},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, body, msg := classify(tt.err)
			if status != tt.status || body.Code != tt.code || body.Reason != tt.reason || body.IsBlocked != tt.blocked {
				t.Fatalf("got %d %+v", status, body)
			}
			if msg == "" {
				t.Fatalf("empty message")
			}
		})
	}
}

func TestClassifyHidesInternalErrors(t *testing.T) {
	_, _, msg := classify(errors.New("pq: password authentication failed"))
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
