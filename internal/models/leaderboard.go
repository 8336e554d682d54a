package models

type LeaderboardItem struct {
	UserID string `json:"user_id"`
	Stamps int    `json:"stamps"`
	Rank   int    `json:"rank"`
}

type LeaderboardResponse struct {
	GroupID     string             `json:"group_id"`
	Leaderboard []*LeaderboardItem `json:"leaderboard"`
}
