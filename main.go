package main

import "github.com/rpalermodrums/distributed-web-crawler/cmd"

func main() {
	cmd.Execute()
}
