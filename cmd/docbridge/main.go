// Command docbridge translates a repository's documentation tree via a
// language model and publishes the result as a pull request, with all
// outbound calls paced, retried, and credential-guarded.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
