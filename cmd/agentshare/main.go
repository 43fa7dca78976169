package main

import (
	"fmt"
	"os"

	"github.com/agentshare/agentshare/cmd/agentshare/cmd"
)

func main() {
	code, err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
