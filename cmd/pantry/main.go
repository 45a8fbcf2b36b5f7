package main

import "github.com/deppfellow/pantry/cmd/pantry/commands"

func main() {
	commands.Execute()
}
