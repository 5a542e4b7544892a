// Command geoscape runs the alien mission side of a campaign without the
// rest of the game: it spawns and steps missions, saves the campaign and
// reports its state.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env file:", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
