package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tetragramaton/smh-sensors/internal/logging"
)

func main() {
	_ = godotenv.Load()
	a := &app{out: os.Stdout, logger: logging.FromEnv()}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
