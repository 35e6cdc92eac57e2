package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/haven/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override haven config path (optional)")
	prefsPath := flag.String("prefs", "", "override UI preferences path (optional)")
	pollSeconds := flag.Int("poll", 0, "dashboard refresh interval in seconds (optional, defaults to 15s)")
	token := flag.String("token", "", "session token to use instead of the configured one (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Token:      *token,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "haven: %v\n", err)
		return 1
	}
	return 0
}
