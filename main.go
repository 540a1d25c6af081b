package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/csim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
