package main

import "github.com/minebase/playerstats/internal/cli"

func main() {
	cli.Execute()
}
