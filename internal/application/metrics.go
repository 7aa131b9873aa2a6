package application

import "expvar"

// Counters published under /debug/vars.
var (
	metricAccountsRegistered = expvar.NewInt("accounts_registered")
	metricLogins             = expvar.NewInt("logins")
	metricPostsCreated       = expvar.NewInt("posts_created")
	metricPostsDeleted       = expvar.NewInt("posts_deleted")
	metricLikes              = expvar.NewInt("post_likes")
	metricComments           = expvar.NewInt("comments_created")
	metricImageUploads       = expvar.NewInt("image_uploads")
	metricImageUploadErrors  = expvar.NewInt("image_upload_errors")
)
