package policy

// DenialError is the reason an action was refused. Code is stable and safe to
// expose to clients.
type DenialError struct {
	Code    string
	Message string
}

func (e *DenialError) Error() string { return e.Message }

var (
	ErrUnauthenticated  = &DenialError{Code: "unauthenticated", Message: "authentication required"}
	ErrAccountBlocked   = &DenialError{Code: "account_blocked", Message: "your account has been blocked by the administrator"}
	ErrNotOwner         = &DenialError{Code: "not_owner", Message: "only the post owner or an admin can do this"}
	ErrNotAuthor        = &DenialError{Code: "not_author", Message: "only the comment author or an admin can do this"}
	ErrNotSelf          = &DenialError{Code: "not_self", Message: "accounts can only change their own profile"}
	ErrAdminOnly        = &DenialError{Code: "admin_only", Message: "admin access required"}
	ErrCannotBlockAdmin = &DenialError{Code: "cannot_block_admin", Message: "cannot block admin users"}
	ErrAlreadyLiked     = &DenialError{Code: "already_liked", Message: "already liked"}
	ErrMissingResource  = &DenialError{Code: "missing_resource", Message: "no target resource"}
	ErrUnknownAction    = &DenialError{Code: "unknown_action", Message: "unknown action"}
)
