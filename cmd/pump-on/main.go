package main

import "github.com/oshokin/soil-node/cmd/pump-on/cmd"

func main() {
	cmd.Execute()
}
