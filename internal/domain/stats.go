package domain

// ArticleStats counts articles by publication state.
type ArticleStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"draft"`
}

// UserStats summarises the user directory.
type UserStats struct {
	Total        int64 `json:"total"`
	Approved     int64 `json:"approved"`
	Pending      int64 `json:"pending"`
	Enabled      int64 `json:"enabled"`
	Admins       int64 `json:"admins"`
	Contributors int64 `json:"contributors"`
}

// Contributor is a user together with the number of articles they own.
type Contributor struct {
	User         *User `json:"user"`
	ArticleCount int64 `json:"articleCount"`
}
