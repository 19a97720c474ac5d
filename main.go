package main

import "locpatch/internal/cli"

func main() {
	cli.Execute()
}
