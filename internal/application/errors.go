package application

import "errors"

var (
	ErrInvalidID          = errors.New("invalid identifier")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("session is no longer valid")
	ErrEmailTaken         = errors.New("user already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrInvalidImage       = errors.New("uploaded file must be an image")
	ErrImageUpload        = errors.New("image upload failed")
	ErrIdentityProvider   = errors.New("identity verification failed")
	ErrSearchUnavailable  = errors.New("search is unavailable")
)
