package main

import (
	"cgv-showtimes/cmd/cgv-showtimes/commands"
	"cgv-showtimes/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
