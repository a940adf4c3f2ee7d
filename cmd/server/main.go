package main

import "shotchart/internal/cli"

func main() {
	cli.Execute()
}
