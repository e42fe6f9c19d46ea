package main

import "github.com/don7panic/classgen/cmd"

func main() {
	cmd.Execute()
}
