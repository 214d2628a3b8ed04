package main

import "github.com/nirmaan-labs/intro-coach/cmd"

func main() {
	cmd.Execute()
}
