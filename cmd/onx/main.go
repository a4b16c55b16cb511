// Command onx inspects and converts 3D model archives.
package main

import (
	"os"

	"github.com/arloliu/onx/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
