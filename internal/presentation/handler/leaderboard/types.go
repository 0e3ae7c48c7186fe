package leaderboard

type entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Room  string `json:"room"`
	When  int64  `json:"when"`
}

type leaderboardResponse struct {
	OK      bool    `json:"ok"`
	Entries []entry `json:"entries"`
}
