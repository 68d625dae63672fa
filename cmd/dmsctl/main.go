package main

import (
	"context"
	"os"

	"github.com/arloliu/go-dms/cmd/dmsctl/commands"
)

var version = "development"

func main() {
	cmd := commands.DmsctlCmd(version)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
