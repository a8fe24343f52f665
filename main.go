package main

import (
	"github.com/netfabrik/resdir/cmd"
)

func main() {
	cmd.Execute()
}
