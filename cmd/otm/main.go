package main

import "github.com/OpenTraceLab/OpenTraceMatrix/cmd/otm/cmd"

func main() {
	cmd.Execute()
}
