// Command pagesim simulates page-replacement algorithms.
package main

import (
	"github.com/sarchlab/pagesim/cmd/pagesim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
