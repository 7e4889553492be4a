package main

import "github.com/oshokin/soil-node/cmd/soil-probe/cmd"

func main() {
	cmd.Execute()
}
