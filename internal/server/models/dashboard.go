package models

// Dashboard aggregates the counters shown on the admin overview.
type Dashboard struct {
	TotalUsers           int64 `json:"total_users"`
	TodaySignups         int64 `json:"today_signups"`
	ActiveUsers          int64 `json:"active_users"`
	BannedUsers          int64 `json:"banned_users"`
	TodayPosts           int64 `json:"today_posts"`
	TodayComments        int64 `json:"today_comments"`
	UnreadReports        int64 `json:"unread_reports"`
	UnreadSupportTickets int64 `json:"unread_support_tickets"`
}
