package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toastkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┌─┐┌─┐┌─┐┌┬┐┌┬┐
   ║ │ │├─┤└─┐ │  ││
   ╩ └─┘┴ ┴└─┘ ┴ ─┴┘
`

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "toastd",
		Short: "Transient toast notifications served to the browser",
		Long: `toastd hosts a toast notification service.

Toasts are grouped into per-position containers that mount on demand
and unmount once their last toast is gone. Browsers receive rendered
containers over WebSocket or server-sent events:

  • Eight screen positions with column or reversed stacking
  • Auto-dismiss timers that pause on hover
  • Click, close, action and swipe interactions
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON config file")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		demoCmd(&configPath),
		codesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// printBanner prints the toastd banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
