package main

import (
	"math/rand"
	"time"

	"github.com/battlesnakeio/zerocool/cmd/zerocool/commands"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	commands.Execute()
}
