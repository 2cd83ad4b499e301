package main

import (
	"github.com/nirman-app/nirman/cmd"
)

func main() {
	cmd.Execute()
}
