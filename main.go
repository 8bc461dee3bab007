package main

import "web-a11y/internal/cli"

func main() {
	cli.Execute()
}
