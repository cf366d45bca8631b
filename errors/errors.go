package errors

import "fmt"

var (
	// Codec sentinels. The transport relies on the distinction: an
	// incomplete frame means "wait for more bytes", a malformed one means
	// the stream cannot be resynchronized.
	ErrIncompleteFrame = fmt.Errorf("incomplete frame")
	ErrMalformedFrame  = fmt.Errorf("malformed frame")
	ErrCommandTooLong  = fmt.Errorf("command exceeds 16 bytes")
	ErrDataTooLong     = fmt.Errorf("data exceeds 9999 bytes")
	ErrCommandDelim    = fmt.Errorf("command contains a delimiter character")
	ErrFieldCount      = fmt.Errorf("unexpected field count")

	// Domain sentinels.
	ErrUnknownUser     = fmt.Errorf("unknown user")
	ErrWrongPassword   = fmt.Errorf("wrong password")
	ErrUnknownQuestion = fmt.Errorf("unknown question")
	ErrNoQuestions     = fmt.Errorf("no questions left")
	ErrEmptyBank       = fmt.Errorf("question bank is empty")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
