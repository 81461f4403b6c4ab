package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/camdaynight/daynight/internal/discovery"
	"github.com/camdaynight/daynight/internal/ui"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find cameras on the local network",
	Long: `Browse mDNS for devices offering a web interface or an RTSP stream and
list them, likely cameras first. Use the address shown with 'daynight setup'.

Not every camera advertises itself over mDNS; if yours is missing, look up
its address in your router's client list.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for answers")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := initLogging(nil, true); err != nil {
		return err
	}

	printer := ui.NewPrinter(nil)
	printer.PrintHeader("Network Scan", "scan", ui.Field{Key: "Timeout", Value: scanTimeout.String()})

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout

	devices, err := scanner.Scan(cmd.Context())
	if err != nil {
		printer.PrintError("Scan failed", err, []string{
			"mDNS needs multicast on the local network",
			"Check that a firewall is not blocking UDP port 5353",
		})
		return err
	}

	if len(devices) == 0 {
		printer.PrintWarning("No devices found",
			ui.Field{Key: "Hint", Value: "Try a longer --timeout or find the camera in your router"},
		)
		return nil
	}

	var b strings.Builder
	cameras := 0
	for _, d := range devices {
		marker := ui.StepMarkerPending
		if d.LikelyCamera() {
			marker = ui.SuccessMarker
			cameras++
		}
		fmt.Fprintf(&b, "  %s %-40s %s\n", marker, d.String(), strings.Join(d.Services, ", "))
	}
	printer.Print(b.String())
	printer.Newline()

	printer.PrintSuccess("Scan complete",
		ui.Field{Key: "Devices", Value: fmt.Sprint(len(devices))},
		ui.Field{Key: "Likely cameras", Value: fmt.Sprint(cameras)},
	)
	printer.Println("Run 'daynight setup' and enter the camera's address to configure it.")
	return nil
}
