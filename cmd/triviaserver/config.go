package main

import "time"

type Config struct {
	Host              string        `env:"HOST,default=127.0.0.1"`
	Port              int           `env:"PORT,default=5678"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	UsersFilepath     string        `env:"USERS_FILEPATH,default=users.txt"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	TriviaAPIURL      string        `env:"TRIVIA_API_URL,default=https://opentdb.com/api.php?amount=50&type=multiple"`
	ConnBufferSize    int           `env:"CONNECTION_BUFFER_SIZE,default=16"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT,default=10s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}
