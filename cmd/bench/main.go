// Command bench measures task throughput, keeps a run history and serves it
// over HTTP.
// @title microbench API
// @version 1.0
// @description Browse and compare stored benchmark runs
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
