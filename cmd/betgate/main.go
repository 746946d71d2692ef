package main

import "github.com/mcoot/betgate/internal/cli"

func main() {
	cli.Execute()
}
