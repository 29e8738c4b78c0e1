package main

import "github.com/okhramov/perimeter-sentinel/cmd/sentinel/cmd"

func main() {
	cmd.Execute()
}
