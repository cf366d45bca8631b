package protocol

import (
	"fmt"
	"strings"

	"trivia-lab/errors"
)

// Protocol constants. The wire format is byte-exact:
// <cmd, space-padded to 16><'|'><length, zero-padded to 4><'|'><data>
const (
	CmdFieldLength    = 16
	LengthFieldLength = 4
	HeaderLength      = CmdFieldLength + 1 + LengthFieldLength + 1
	MaxDataLength     = 9999
	MaxMessageLength  = HeaderLength + MaxDataLength

	Delimiter     = '|'
	DataDelimiter = "#"
)

// Client commands.
const (
	CmdLogin       = "LOGIN"
	CmdLogout      = "LOGOUT"
	CmdMyScore     = "MY_SCORE"
	CmdLogged      = "LOGGED"
	CmdHighscore   = "HIGHSCORE"
	CmdGetQuestion = "GET_QUESTION"
	CmdSendAnswer  = "SEND_ANSWER"
)

// Server commands.
const (
	CmdLoginOK       = "LOGIN_OK"
	CmdError         = "ERROR"
	CmdYourScore     = "YOUR_SCORE"
	CmdAllScore      = "ALL_SCORE"
	CmdLoggedAnswer  = "LOGGED_ANSWER"
	CmdYourQuestion  = "YOUR_QUESTION"
	CmdCorrectAnswer = "CORRECT_ANSWER"
	CmdWrongAnswer   = "WRONG_ANSWER"
	CmdNoQuestions   = "NO_QUESTIONS"
)

// BuildMessage assembles a full protocol frame from a command and a data
// field. The command is left-padded with spaces to exactly 16 bytes and the
// data length is encoded as a zero-padded 4-digit decimal.
func BuildMessage(cmd, data string) (string, error) {
	if len(cmd) > CmdFieldLength {
		return "", errors.ErrCommandTooLong
	}
	if len(data) > MaxDataLength {
		return "", errors.ErrDataTooLong
	}
	if strings.ContainsAny(cmd, string(Delimiter)+DataDelimiter) {
		return "", errors.ErrCommandDelim
	}
	return fmt.Sprintf("%-*s%c%0*d%c%s",
		CmdFieldLength, cmd, Delimiter,
		LengthFieldLength, len(data), Delimiter,
		data), nil
}

// ParseMessage extracts the command and data field from the start of buf.
// Extra bytes beyond the declared data length are ignored; they belong to
// the next frame and the caller is expected to consume exactly
// HeaderLength+len(data) bytes on success.
//
// A buffer that is merely too short (header or payload not fully arrived)
// fails with ErrIncompleteFrame; structural violations fail with
// ErrMalformedFrame.
func ParseMessage(buf []byte) (string, string, error) {
	if len(buf) < HeaderLength {
		return "", "", errors.ErrIncompleteFrame
	}
	if buf[CmdFieldLength] != Delimiter || buf[HeaderLength-1] != Delimiter {
		return "", "", errors.ErrMalformedFrame
	}

	length := 0
	for _, b := range buf[CmdFieldLength+1 : CmdFieldLength+1+LengthFieldLength] {
		if b < '0' || b > '9' {
			return "", "", errors.ErrMalformedFrame
		}
		length = length*10 + int(b-'0')
	}
	if len(buf) < HeaderLength+length {
		return "", "", errors.ErrIncompleteFrame
	}

	cmd := strings.TrimRight(string(buf[:CmdFieldLength]), " ")
	data := string(buf[HeaderLength : HeaderLength+length])
	return cmd, data, nil
}

// SplitData splits a data field on '#' and validates the exact field count.
// An empty string counts as a single empty field.
func SplitData(data string, expected int) ([]string, error) {
	if data == "" {
		if expected == 1 {
			return []string{""}, nil
		}
		return nil, errors.ErrFieldCount
	}
	fields := strings.Split(data, DataDelimiter)
	if len(fields) != expected {
		return nil, fmt.Errorf("%w: got %d, want %d", errors.ErrFieldCount, len(fields), expected)
	}
	return fields, nil
}

// JoinData joins fields with the data delimiter. No validation: the caller
// guarantees fields contain no '#' where a round trip matters.
func JoinData(fields []string) string {
	return strings.Join(fields, DataDelimiter)
}
