package main

import (
	"os"

	crewmatchcmder "github.com/crewmatchco/crewmatch/cmd/crewmatch"
)

func main() {
	cmd := crewmatchcmder.NewCrewmatchCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
