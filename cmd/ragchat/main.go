// Command ragchat is a terminal client for a retrieval-augmented generation server.
package main

import "github.com/diogo/ragchat/internal/commands"

func main() {
	commands.Execute()
}
