// Package main provides the entrypoint for razorpay-interakt-app.
package main

import (
	"os"

	"github.com/isometry/razorpay-interakt-app/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
