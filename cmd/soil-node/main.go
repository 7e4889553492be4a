package main

import "github.com/oshokin/soil-node/cmd/soil-node/cmd"

func main() {
	cmd.Execute()
}
