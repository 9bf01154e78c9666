// Command chesscore-uci runs the engine as a UCI process: it reads
// commands from stdin and writes info/bestmove responses to stdout,
// with diagnostics on stderr so they never pollute the protocol stream.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/andtsa/chesscore/internal/uci"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	uci.New(log).Run()
}
