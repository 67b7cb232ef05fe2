package main

import "frpcpanel/internal/cli"

func main() {
	cli.Execute()
}
