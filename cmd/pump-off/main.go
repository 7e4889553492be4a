package main

import "github.com/oshokin/soil-node/cmd/pump-off/cmd"

func main() {
	cmd.Execute()
}
