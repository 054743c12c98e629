package analytics

const (
	redisKeyEvents        = "eldrex:analytics:events"
	redisKeyPlatformStats = "eldrex:analytics:platform"
	redisKeyReportCounts  = "eldrex:analytics:reports"

	redisKeyCommentMirrorPrefix = "eldrex:analytics:comments:"
)

// Event names tracked against the counters hash.
const (
	EventCommentPosted  = "comment_posted"
	EventReplyPosted    = "reply_posted"
	EventCommentLiked   = "comment_liked"
	EventCommentUnliked = "comment_unliked"
	EventReportFiled    = "report_filed"
	EventFeedViewed     = "feed_viewed"
	EventVisitorSignIn  = "visitor_sign_in"
)

// CommentMirror is the reduced record of a comment kept in the
// analytics store: identity, category, timestamp, and the sensitivity
// flag. No body or author data crosses into the secondary store.
type CommentMirror struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Sensitive bool   `json:"sensitive"`
	CreatedAt int64  `json:"createdAt"`
}
