// Command testbed opens a window on the testbed scene. Left click spawns a
// box under the cursor; right click pushes every box upward.
package main

import (
	"log"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/gui"
)

func main() {
	tb, err := gui.NewTestbed(config.GetPreset("testbed"), "")
	if err != nil {
		log.Fatal(err)
	}
	if err := tb.Run(); err != nil {
		log.Fatal(err)
	}
}
