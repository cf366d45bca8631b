package domain

// User is an account known to the server. QuestionsAsked keeps the IDs of
// every question already served to this user, in issuance order, so a
// question is exposed at most once per user even across restarts.
type User struct {
	Username       string
	Password       string
	Score          int
	QuestionsAsked []int
}

// WasAsked reports whether the question was already served to the user.
func (u User) WasAsked(questionID int) bool {
	for _, id := range u.QuestionsAsked {
		if id == questionID {
			return true
		}
	}
	return false
}

// ScoreEntry is one row of the highscore board.
type ScoreEntry struct {
	Username string
	Score    int
}
