package main

import "github.com/blancasnz/personal-book-tracker/cmd"

// execute is a variable so tests can stub out the CLI entrypoint.
var execute = cmd.Execute

func main() {
	execute()
}
