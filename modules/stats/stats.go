package stats

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lordralex/commandbot/api"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"
)

func Command() *api.Command {
	return &api.Command{
		Name:        "stats",
		Description: "Get some stats on the current instance of the bot.",
		Handler:     handle,
	}
}

func handle(ctx context.Context, r api.Responder, i *api.Interaction) error {
	report, err := Collect(ctx)
	if err != nil {
		return err
	}
	return api.Reply(ctx, r, i, "```"+report+"```")
}

// Collect builds the stats report. The host section is left out when the
// platform does not expose it.
func Collect(ctx context.Context) (string, error) {
	pid := os.Getpid()

	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", fmt.Errorf("process info: %w", err)
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("memory info: %w", err)
	}
	created, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("process create time: %w", err)
	}

	hostname, _ := os.Hostname()

	output := []string{
		fmt.Sprintf("Running as PID %d on host %s", pid, hostname),
		"",
		"[General]",
		fmt.Sprintf("Uptime: %s", time.Since(time.UnixMilli(created)).Round(time.Second)),
		fmt.Sprintf("Memory usage (RSS): %.2fMB", float64(mem.RSS)/1024/1024),
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		output = append(output,
			"",
			"[Host]",
			fmt.Sprintf("OS: %s %s", info.Platform, info.PlatformVersion),
			fmt.Sprintf("Kernel version: %s", info.KernelVersion),
		)
		if avg, err := load.AvgWithContext(ctx); err == nil {
			output = append(output, fmt.Sprintf("Load: %.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15))
		}
	}

	return strings.Join(output, "\n"), nil
}
