package main

import (
	"github.com/outlast-gg/arena/internal/cli"
)

func main() {
	cli.Execute()
}
