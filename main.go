package main

import (
	"log"
	"os"

	"github.com/dkoval/pinline/engine"
	"github.com/dkoval/pinline/uci"
)

const (
	name    = "PinLine"
	author  = "Denis Koval"
	version = "1.0"
)

func main() {
	var logger = log.New(os.Stderr, "", log.LstdFlags)
	uci.New(name, author, version, engine.NewEngine()).Run(logger)
}
