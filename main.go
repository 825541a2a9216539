package main

import "thinkgraph/cmd"

func main() {
	cmd.Execute()
}
