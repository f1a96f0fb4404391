// Command encore plays tracks from a music service in the terminal.
package main

import "github.com/tessro/encore/internal/cli"

func main() {
	cli.Execute()
}
