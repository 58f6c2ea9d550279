package dto

type CacheStatsResponse struct {
	Questions      int64 `json:"questions"`
	Interactions   int64 `json:"interactions"`
	ActiveSessions int   `json:"active_sessions"`
}
