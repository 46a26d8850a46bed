// Command helloworld drops a box onto a static ground and prints its
// position and angle once per step for one simulated second.
package main

import (
	"context"
	"log"
	"os"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/console"
)

func main() {
	if _, err := console.Hello(context.Background(), os.Stdout, config.Default()); err != nil {
		log.Fatal(err)
	}
}
