package main

import "github.com/syl2042/contentmaestro/cmd/api/commands"

func main() {
	commands.Execute()
}
