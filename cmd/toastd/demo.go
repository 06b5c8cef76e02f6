package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toastkit/internal/config"
	"github.com/vango-dev/toastkit/pkg/host"
	"github.com/vango-dev/toastkit/pkg/toast"
)

func demoCmd(configPath *string) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted toast session in the terminal",
		Long: `Run a scripted toast session without a browser.

The demo shows, pauses, acts on and dismisses a handful of toasts and
prints every container patch the hub would send to a browser.

Examples:
  toastd demo
  toastd demo --speed 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if speed <= 0 {
				return fmt.Errorf("speed must be positive, got %v", speed)
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			printBanner()
			return runDemo(cmd.Context(), cfg, speed)
		},
	}

	cmd.Flags().Float64VarP(&speed, "speed", "s", 1, "Playback speed multiplier")

	return cmd
}

// demoStep is one scripted call made on the event loop after At.
type demoStep struct {
	At   time.Duration
	Note string
	Run  func(s *toast.Service, refs map[string]*toast.Ref)
}

func demoScript(scale func(time.Duration) time.Duration) []demoStep {
	return []demoStep{
		{0, "success toast, top-right, 3s", func(s *toast.Service, refs map[string]*toast.Ref) {
			refs["saved"] = s.Success(toast.Text("Settings saved"), toast.WithDuration(scale(3*time.Second)))
		}},
		{0, "persistent error with a Retry action, bottom-left", func(s *toast.Service, refs map[string]*toast.Ref) {
			refs["failed"] = s.Error(toast.Text("Upload failed"),
				toast.WithDuration(0),
				toast.WithPosition(toast.PositionBottomLeft),
				toast.WithAction("Retry", func() { info("Retry pressed") }),
			)
		}},
		{500 * time.Millisecond, "info toast stacks under the success toast, 2s", func(s *toast.Service, refs map[string]*toast.Ref) {
			refs["synced"] = s.Info(toast.Text("3 files synced"), toast.WithDuration(scale(2*time.Second)))
		}},
		{time.Second, "pointer enters the info toast", func(s *toast.Service, refs map[string]*toast.Ref) {
			s.Interact(refs["synced"].ID(), toast.InteractPointerEnter)
		}},
		{2500 * time.Millisecond, "pointer leaves, the timer resumes", func(s *toast.Service, refs map[string]*toast.Ref) {
			s.Interact(refs["synced"].ID(), toast.InteractPointerLeave)
		}},
		{3500 * time.Millisecond, "Retry clicked on the error toast", func(s *toast.Service, refs map[string]*toast.Ref) {
			s.Interact(refs["failed"].ID(), toast.InteractAction)
		}},
		{4 * time.Second, "warning toast swiped away", func(s *toast.Service, refs map[string]*toast.Ref) {
			refs["quota"] = s.Warning(toast.Text("Storage almost full"),
				toast.WithPosition(toast.PositionTopCenter),
				toast.WithDuration(scale(5*time.Second)),
			)
		}},
		{4500 * time.Millisecond, "", func(s *toast.Service, refs map[string]*toast.Ref) {
			s.Interact(refs["quota"].ID(), toast.InteractSwipe)
		}},
	}
}

// runDemo plays demoScript against a real event loop and hub.
func runDemo(ctx context.Context, cfg *config.Config, speed float64) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	scale := func(d time.Duration) time.Duration { return time.Duration(float64(d) / speed) }

	loop := toast.NewEventLoop(
		toast.WithFrameInterval(cfg.Toast.FrameInterval),
		toast.WithLoopLogger(logger),
	)
	hub := host.NewHub(host.WithHubLogger(logger), host.WithClientBuffer(cfg.Server.ClientBuffer))

	service := toast.NewService(hub, loop,
		toast.WithDefaults(cfg.ToastDefaults()),
		toast.WithExitAnimation(scale(cfg.Toast.ExitAnimation)),
		toast.WithLogger(logger),
		toast.WithIDGenerator(sequentialIDs()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)

	client, _ := hub.Subscribe("demo")
	start := time.Now()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for {
			select {
			case p := <-client.Patches():
				printPatch(time.Since(start), p)
			case <-client.Done():
				for {
					select {
					case p := <-client.Patches():
						printPatch(time.Since(start), p)
					default:
						return
					}
				}
			}
		}
	}()

	refs := make(map[string]*toast.Ref)
	for _, step := range demoScript(scale) {
		if wait := scale(step.At) - time.Since(start); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if step.Note != "" {
			fmt.Printf("\n  \033[36m▸ %s\033[0m\n", step.Note)
		}
		run := step.Run
		if err := loop.Do(ctx, func() { run(service, refs) }); err != nil {
			return err
		}
	}

	fmt.Println()
	for _, name := range []string{"saved", "failed", "synced", "quota"} {
		reason, ok := refs[name].Wait(scale(10 * time.Second))
		if !ok {
			warn("%s (%s) still open", name, refs[name].ID())
			continue
		}
		success("%s (%s) dismissed: %s", name, refs[name].ID(), reason)
	}

	var containers int
	deadline := time.Now().Add(scale(cfg.Toast.ExitAnimation) + time.Second)
	for time.Now().Before(deadline) {
		if err := loop.Do(ctx, func() { containers = service.ContainerCount() }); err != nil {
			return err
		}
		if containers == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Close()
	<-printed

	stats := loop.Stats()
	fmt.Println()
	info("Containers left: %d", containers)
	info("Loop callbacks:  %d (%d panics)", stats.Executed, stats.Panics)
	fmt.Println()
	return nil
}

func printPatch(at time.Duration, p host.Patch) {
	toasts := strings.Count(p.HTML, "data-toast-id=")
	detail := fmt.Sprintf("%d toast", toasts)
	if toasts != 1 {
		detail += "s"
	}
	if p.Op == host.OpUnmount {
		detail = "removed"
	}
	fmt.Printf("    %6.3fs  #%-3d %-7s %-24s %s\n", at.Seconds(), p.Seq, p.Op, p.Surface, detail)
}

// sequentialIDs keeps demo output stable across runs.
func sequentialIDs() toast.IDGenerator {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("toast-%d", n)
	}
}
