package events

// ApplicationEvent tells read-side consumers that an application changed and
// the affected list views should be re-fetched.
type ApplicationEvent struct {
	ApplicationID string `json:"application_id"`
	JobPostID     string `json:"job_post_id"`
	Status        string `json:"status"`
	CurrentRound  int    `json:"current_round"`
}

// NotificationEvent tells read-side consumers that a user's notification
// list is stale.
type NotificationEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Kind           string `json:"kind"`
}
