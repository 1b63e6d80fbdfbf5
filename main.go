// main executable.
package main

import (
	"os"

	"github.com/smartscope-embedded/smartscope/internal/app"
)

func main() {
	a, ok := app.New(os.Args[1:])
	if !ok {
		os.Exit(1)
	}
	a.Wait()
}
