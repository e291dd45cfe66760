package domain

// StatusCounters is the denormalized dashboard summary held in the counter
// cache. Not authoritative: derivable at any time by re-aggregating tasks.
type StatusCounters struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Active      int `json:"active"`
	InProgress  int `json:"in_progress"`
	Completed   int `json:"completed"`
	Reviewed    int `json:"reviewed"`
	Overdue     int `json:"overdue"`
	OnlineUsers int `json:"online_users"`
}
