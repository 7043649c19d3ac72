package main

import "github.com/atikulmunna/accesstail/internal/cmd"

func main() {
	cmd.Execute()
}
