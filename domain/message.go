package domain

// Message is one decoded protocol frame. It only exists in transit.
type Message struct {
	Command string
	Data    string
}
