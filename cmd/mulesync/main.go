package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"mulesync/internal/di"
	"mulesync/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to config file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "mulesync: %s\n", err)
		os.Exit(1)
	}
}
