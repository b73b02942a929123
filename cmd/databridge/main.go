/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
