package main

import "github.com/2492dfd/stockLog-final/cmd"

func main() {
	cmd.Execute()
}
