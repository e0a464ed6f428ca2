package main

import "github.com/cirius-dev/cirius-cli/cmd/cirius/cli"

func main() {
	cli.Run()
}
