// Package main is the entry point of the getconf command.
package main

import "github.com/bors-ltd/getconf/cmd"

func main() {
	cmd.Execute()
}
