package internal

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// Set with buildflag if built in pipeline and not using go install
var (
	BuildVersion  = ""
	BuildChecksum = ""
)

type versionCommand struct{}

func (versionCommand) Run(context.Context) error {
	if BuildVersion != "" {
		fmt.Printf("version: %v, checksum: %v\n", BuildVersion, BuildChecksum)
		return nil
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("failed to read build info")
	}
	fmt.Printf("version: %v, go version: %v, checksum: %v\n", bi.Main.Version, bi.GoVersion, bi.Main.Sum)
	return nil
}
