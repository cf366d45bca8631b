package server

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"trivia-lab/domain"
	"trivia-lab/errors"
	"trivia-lab/protocol"
	"trivia-lab/services"
)

// Dispatcher maps a decoded command to a handler based on the session state
// of the connection (anonymous or authenticated) and produces zero or one
// reply per inbound frame. The second return value tells the transport
// whether to keep the connection open; only LOGOUT closes it.
type Dispatcher struct {
	store *services.GameStore
	log   *slog.Logger
}

func NewDispatcher(store *services.GameStore, log *slog.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// Dispatch handles one inbound frame from the connection identified by its
// session id. Domain failures are answered with an ERROR frame; they
// never close the connection and never escape as an error.
func (d *Dispatcher) Dispatch(sessionID, cmd, data string) (*domain.Message, bool) {
	username, loggedIn := d.store.SessionUser(sessionID)

	if !loggedIn {
		if cmd != protocol.CmdLogin {
			return errorMessage("You must login first"), true
		}
		return d.handleLogin(sessionID, data), true
	}

	switch cmd {
	case protocol.CmdLogin:
		// Repeated logins are idempotent: credentials are re-verified and
		// the session rebound, so a client may switch users mid-connection.
		return d.handleLogin(sessionID, data), true
	case protocol.CmdLogout:
		d.store.MarkLoggedOut(sessionID)
		return nil, false
	case protocol.CmdMyScore:
		return d.handleScore(username), true
	case protocol.CmdHighscore:
		return d.handleHighscore(), true
	case protocol.CmdLogged:
		return d.handleLogged(), true
	case protocol.CmdGetQuestion:
		return d.handleQuestion(username), true
	case protocol.CmdSendAnswer:
		return d.handleAnswer(username, data), true
	default:
		d.log.Warn("Unknown command", "command", cmd, "session", sessionID)
		return errorMessage("Unsupported command"), true
	}
}

func (d *Dispatcher) handleLogin(sessionID, data string) *domain.Message {
	fields, err := protocol.SplitData(data, 2)
	if err != nil {
		return errorMessage("Invalid login data")
	}

	username, password := fields[0], fields[1]
	if err := d.store.Authenticate(username, password); err != nil {
		switch {
		case goerrors.Is(err, errors.ErrUnknownUser):
			return errorMessage(fmt.Sprintf("User '%s' does not exist", username))
		default:
			return errorMessage("Incorrect password")
		}
	}

	d.store.MarkLoggedIn(sessionID, username)
	d.log.Info("User logged in", "username", username, "session", sessionID)
	return &domain.Message{Command: protocol.CmdLoginOK, Data: fmt.Sprintf("Welcome %s!", username)}
}

func (d *Dispatcher) handleScore(username string) *domain.Message {
	score, err := d.store.Score(username)
	if err != nil {
		return errorMessage(fmt.Sprintf("User '%s' does not exist", username))
	}
	return &domain.Message{Command: protocol.CmdYourScore, Data: strconv.Itoa(score)}
}

func (d *Dispatcher) handleHighscore() *domain.Message {
	entries := d.store.Highscore()
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s:%d", entry.Username, entry.Score))
	}
	return &domain.Message{Command: protocol.CmdAllScore, Data: strings.Join(lines, "\n")}
}

func (d *Dispatcher) handleLogged() *domain.Message {
	return &domain.Message{
		Command: protocol.CmdLoggedAnswer,
		Data:    protocol.JoinData(d.store.LoggedUsers()),
	}
}

func (d *Dispatcher) handleQuestion(username string) *domain.Message {
	question, err := d.store.PickUnaskedQuestion(username)
	if err != nil {
		if goerrors.Is(err, errors.ErrNoQuestions) {
			// Dedicated reply: the client distinguishes "bank exhausted"
			// from a generic error.
			return &domain.Message{Command: protocol.CmdNoQuestions}
		}
		return errorMessage("Server error occurred")
	}

	fields := append([]string{strconv.Itoa(question.ID), question.Text}, question.Answers...)
	d.log.Info("Sent question", "id", question.ID, "username", username)
	return &domain.Message{Command: protocol.CmdYourQuestion, Data: protocol.JoinData(fields)}
}

func (d *Dispatcher) handleAnswer(username, data string) *domain.Message {
	fields, err := protocol.SplitData(data, 2)
	if err != nil {
		return errorMessage("Invalid answer format")
	}
	questionID, err := strconv.Atoi(fields[0])
	if err != nil {
		return errorMessage("Invalid answer format")
	}
	choice, err := strconv.Atoi(fields[1])
	if err != nil {
		return errorMessage("Invalid answer format")
	}

	result, err := d.store.RecordAnswer(username, questionID, choice)
	if err != nil {
		return errorMessage("Question does not exist")
	}

	if result.Correct {
		return &domain.Message{
			Command: protocol.CmdCorrectAnswer,
			Data:    strconv.Itoa(services.QuestionReward),
		}
	}
	return &domain.Message{
		Command: protocol.CmdWrongAnswer,
		Data:    fmt.Sprintf("%d,%s", result.CorrectIndex, result.CorrectText),
	}
}

func errorMessage(text string) *domain.Message {
	return &domain.Message{Command: protocol.CmdError, Data: text}
}
