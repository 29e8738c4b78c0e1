package main

import "github.com/okhramov/perimeter-sentinel/cmd/sentinel-status/cmd"

func main() {
	cmd.Execute()
}
