package main

import (
	"grantsync-backend/cmd/grantsync-cli/commands"
	"grantsync-backend/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
