package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"trivia-lab/client"
	"trivia-lab/protocol"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string        `env:"TRIVIA_SERVER_ADDR,default=127.0.0.1:5678"`
	Timeout       time.Duration `env:"TRIVIA_TIMEOUT,default=10s"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	c, err := client.Dial(config.ServerAddress, config.Timeout)
	if err != nil {
		return exitRuntime, err
	}
	defer c.Close()
	color.Green.Println("Connected to server.")

	stdin := bufio.NewReader(os.Stdin)
	if !login(c, stdin) {
		return exitOK, nil
	}

	menu(c, stdin)

	// Best effort: the server answers LOGOUT with silence.
	_ = c.Send(protocol.CmdLogout, "")
	color.Cyan.Println("Goodbye!")
	return exitOK, nil
}

// login loops until the server accepts credentials or the user gives up.
func login(c *client.Client, stdin *bufio.Reader) bool {
	for {
		username := prompt(stdin, "Please enter username: ")
		password := prompt(stdin, "Please enter password: ")
		if username == "" || password == "" {
			color.Red.Println("Username and password cannot be empty!")
			continue
		}

		reply, err := c.Do(protocol.CmdLogin, protocol.JoinData([]string{username, password}))
		if err != nil {
			color.Red.Printf("Connection error: %v\n", err)
			return false
		}
		if reply.Command == protocol.CmdLoginOK {
			color.Green.Println(reply.Data)
			return true
		}

		color.Red.Printf("Login failed: %s\n", reply.Data)
		if prompt(stdin, "Try again? (y/n): ") != "y" {
			return false
		}
	}
}

func menu(c *client.Client, stdin *bufio.Reader) {
	for {
		fmt.Println()
		color.Cyan.Println("p - Play a trivia question")
		color.Cyan.Println("s - Get my score")
		color.Cyan.Println("h - Get high score")
		color.Cyan.Println("l - Get logged users")
		color.Cyan.Println("q - Quit")

		switch prompt(stdin, "Your choice: ") {
		case "p":
			playQuestion(c, stdin)
		case "s":
			showScore(c)
		case "h":
			showHighscore(c)
		case "l":
			showLogged(c)
		case "q":
			return
		default:
			color.Yellow.Println("Unknown choice")
		}
	}
}

func playQuestion(c *client.Client, stdin *bufio.Reader) {
	reply, err := c.Do(protocol.CmdGetQuestion, "")
	if err != nil {
		color.Red.Printf("Failed to get question: %v\n", err)
		return
	}
	if reply.Command == protocol.CmdNoQuestions {
		color.Yellow.Println("No more questions left, you answered them all!")
		return
	}
	if reply.Command != protocol.CmdYourQuestion {
		color.Red.Printf("Server error: %s\n", reply.Data)
		return
	}

	fields, err := protocol.SplitData(reply.Data, 6)
	if err != nil {
		color.Red.Println("Malformed question received")
		return
	}
	questionID := fields[0]
	color.Bold.Printf("\nQ%s: %s\n", questionID, fields[1])
	for i, answer := range fields[2:] {
		fmt.Printf("  %d. %s\n", i+1, answer)
	}

	choice := prompt(stdin, "Your answer (1-4): ")
	if _, err := strconv.Atoi(choice); err != nil {
		color.Red.Println("Answer must be a number between 1 and 4")
		return
	}

	verdict, err := c.Do(protocol.CmdSendAnswer, protocol.JoinData([]string{questionID, choice}))
	if err != nil {
		color.Red.Printf("Failed to send answer: %v\n", err)
		return
	}
	switch verdict.Command {
	case protocol.CmdCorrectAnswer:
		color.Green.Printf("Correct! You earned %s points.\n", verdict.Data)
	case protocol.CmdWrongAnswer:
		parts := strings.SplitN(verdict.Data, ",", 2)
		if len(parts) == 2 {
			color.Red.Printf("Wrong! The correct answer was %s: %s\n", parts[0], parts[1])
		} else {
			color.Red.Println("Wrong!")
		}
	default:
		color.Red.Printf("Server error: %s\n", verdict.Data)
	}
}

func showScore(c *client.Client) {
	reply, err := c.Do(protocol.CmdMyScore, "")
	if err != nil || reply.Command != protocol.CmdYourScore {
		color.Red.Println("Failed to get score")
		return
	}
	color.Bold.Printf("Your current score: %s\n", reply.Data)
}

// showHighscore renders the score board as a table.
func showHighscore(c *client.Client) {
	reply, err := c.Do(protocol.CmdHighscore, "")
	if err != nil || reply.Command != protocol.CmdAllScore {
		color.Red.Println("Failed to get high scores")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Score"})
	for _, line := range strings.Split(reply.Data, "\n") {
		if user, score, found := strings.Cut(line, ":"); found {
			table.Append([]string{user, score})
		}
	}
	table.Render()
}

func showLogged(c *client.Client) {
	reply, err := c.Do(protocol.CmdLogged, "")
	if err != nil || reply.Command != protocol.CmdLoggedAnswer {
		color.Red.Println("Failed to get logged users")
		return
	}
	color.Bold.Println("Logged users:")
	for _, username := range strings.Split(reply.Data, protocol.DataDelimiter) {
		fmt.Printf("  - %s\n", username)
	}
}

func prompt(stdin *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
