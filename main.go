package main

import "github.com/fakeyudi/stepsrec/cmd"

func main() {
	cmd.Execute()
}
