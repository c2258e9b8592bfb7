package main

import (
	"os"

	servecmder "github.com/crewmatchco/crewmatch/cmd/crewmatch/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "crewmatchapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Config directory (default: ~/.crewmatch)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
