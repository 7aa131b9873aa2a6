package mailer

import (
	"errors"
	"fmt"

	"github.com/oksasatya/blogx-api/pkg/mailer/templates"
)

var (
	ErrInvalidJob      = errors.New("invalid email job")
	ErrUnknownTemplate = errors.New("unknown email template")
)

// Compose resolves the subject and bodies of job. Template jobs are rendered
// with opts applied on top of the job data; literal jobs are returned as is.
func Compose(job EmailJob, opts ...templates.Option) (subject, text, html string, err error) {
	if !job.Validate() {
		return "", "", "", ErrInvalidJob
	}
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if !templates.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, job.Template)
	}
	data, err := templates.FromMap(job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if data.Email == "" {
		data.Email = job.To
	}
	for _, opt := range opts {
		opt(&data)
	}
	return templates.Render(job.Template, data)
}
