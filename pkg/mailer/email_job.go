package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or a literal Subject/Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "account_blocked", "new_comment"
	Data     map[string]any `json:"data,omitempty"`
}

// Validate reports whether the job can be delivered.
func (j EmailJob) Validate() bool {
	if j.To == "" {
		return false
	}
	return j.Template != "" || j.Subject != ""
}
