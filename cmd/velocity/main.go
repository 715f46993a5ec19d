// velocity gathers investment insights for a ticker.
//
// Usage:
//
//	velocity gather TICKER [--out output]
//	velocity fetch TICKER [--section name]
//	velocity sandbox FILE
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
