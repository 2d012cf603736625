// Swatch - a dominant colour extraction tool
//
// Swatch samples an image, filters pixels by saturation/value windows and
// returns the dominant colours ranked by the area they cover.
package main

import (
	"github.com/jmylchreest/swatch/internal/cli"
)

func main() {
	cli.Execute()
}
