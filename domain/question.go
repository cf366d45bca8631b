package domain

// Question is immutable after load. IDs are sequential and 1-based,
// Correct is the 1-based index into Answers.
type Question struct {
	ID      int
	Text    string
	Answers []string
	Correct int
}
