package main

import "github.com/dotcommander/preflight/cmd"

func main() {
	cmd.Execute()
}
