package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithPost(id, title string) Option {
	return func(d *EmailData) {
		d.PostID = id
		d.PostTitle = title
	}
}

func WithComment(author, text string) Option {
	return func(d *EmailData) {
		d.CommenterName = author
		d.CommentText = text
	}
}

// WithBrand fills the application links; empty values keep what is already set.
func WithBrand(appName, baseURL, supportURL string) Option {
	return func(d *EmailData) {
		if appName != "" {
			d.AppName = appName
		}
		if baseURL != "" {
			d.AppBaseURL = strings.TrimRight(baseURL, "/")
		}
		if supportURL != "" {
			d.SupportURL = supportURL
		}
	}
}

// NewEmailData fills the recipient fields, then applies opts.
func NewEmailData(typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(name, email string, opts ...Option) map[string]any {
	return ToMap(NewEmailData(Welcome, name, email, opts...))
}

func NewAccountBlockedData(name, email string, opts ...Option) map[string]any {
	return ToMap(NewEmailData(AccountBlocked, name, email, opts...))
}

func NewAccountUnblockedData(name, email string, opts ...Option) map[string]any {
	return ToMap(NewEmailData(AccountUnblocked, name, email, opts...))
}

func NewCommentData(ownerName, ownerEmail, postID, postTitle, commenter, text string, opts ...Option) map[string]any {
	opts = append([]Option{WithPost(postID, postTitle), WithComment(commenter, text)}, opts...)
	return ToMap(NewEmailData(NewComment, ownerName, ownerEmail, opts...))
}
