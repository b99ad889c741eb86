package main

import "github.com/dmelnik/verticut/internal/cli"

func main() {
	cli.Main()
}
