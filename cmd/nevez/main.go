package main

import (
	"os"

	"github.com/devtools-ng/nevez/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
