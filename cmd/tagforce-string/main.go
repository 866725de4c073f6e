package main

import "tagforce-string/internal/cli"

func main() {
	cli.Execute()
}
