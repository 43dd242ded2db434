package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/bridge"
	"github.com/michaelquigley/mixerctl/internal/config"
	"github.com/michaelquigley/mixerctl/internal/logging"
	"github.com/michaelquigley/mixerctl/internal/loop"
	"github.com/michaelquigley/mixerctl/internal/tui"
	"github.com/michaelquigley/mixerctl/kernel"
)

var (
	configPath string
	cfg        *config.Config
	log        = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "mixerctl",
	Short: "Live terminal view of an ALSA mixer",
	Long: `mixerctl shows the playback and capture controls of an ALSA mixer in the
terminal and keeps them in sync with the hardware: changes made here are
written to the card, changes made elsewhere show up immediately.

Without a subcommand it opens the interactive view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		if err := logging.Initialize(cfg.Logging); err != nil {
			return err
		}
		log = logging.GetLogger("mixerctl")
		log.Debug("configuration loaded", "backend", cfg.Backend, "device", cfg.Device, "card", cfg.Card)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			// nothing to show without a mixer; not a failure of the tool
			fmt.Fprintf(os.Stderr, "mixerctl: %v\n", err)
			log.Error("mixer unavailable", "error", err)
			return nil
		}
		defer dev.Close()

		return runView(cmd.Context(), dev)
	},
}

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List controls with their capabilities and values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		controls := dev.Controls()
		if len(args) == 1 {
			if controls, err = mixerctl.FindControlsMatching(dev, args[0]); err != nil {
				return err
			}
		}
		fmt.Printf("controls for %s:\n\n", dev.Name())
		for _, ctl := range controls {
			fmt.Println(mixerctl.DetailedString(ctl))
		}

		fmt.Printf("\ntotal: %d controls\n", len(controls))
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <control-name>",
	Short: "Get the value of a control",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		ctl, err := findControl(dev, args[0])
		if err != nil {
			return err
		}

		printValue(ctl)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <control-name> <value>",
	Short: "Set the value of a control",
	Long: `Set a control from a string. Volumes take an integer within the control's
range, switches take on/off, enumerated controls take an item name or index.
Use --capture to address the capture half of a control.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		ctl, err := findControl(dev, args[0])
		if err != nil {
			return err
		}

		dir := mixerctl.Playback
		if capture, _ := cmd.Flags().GetBool("capture"); capture {
			dir = mixerctl.Capture
		}

		if err := mixerctl.SetValueByString(ctl, dir, args[1]); err != nil {
			return err
		}
		log.Info("control set", "control", mixerctl.ControlID(ctl), "dir", dir, "value", args[1])

		printValue(ctl)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor control changes in real-time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		lp := newLoop()
		app := bridge.New(dev, lp,
			bridge.WithLogger(logging.GetLogger("bridge")),
			bridge.WithObserver(printEvent),
		)
		if app.Descriptors == 0 {
			return fmt.Errorf("%s does not report changes", dev.Name())
		}

		fmt.Printf("monitoring %s: %d playback, %d capture controls\n", dev.Name(), app.Playback.Len(), app.Capture.Len())
		err = lp.Run(ctx, loop.Inline)
		fmt.Println("\nstopping monitor...")
		return err
	},
}

var cardsCmd = &cobra.Command{
	Use:   "cards [card]",
	Short: "List the available sound cards",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cards []mixerctl.Card
		var err error
		if cfg.Backend == config.BackendKernel {
			cards, err = kernel.ListCards()
		} else {
			cards, err = mixerctl.ListCards()
		}
		if err != nil {
			return err
		}

		if len(args) == 1 {
			card, err := mixerctl.FindCard(cards, args[0])
			if err != nil {
				return err
			}
			fmt.Println(card)
			fmt.Printf("  --device %s  or  --backend kernel --card %d\n", card.DeviceName(), card.Number)
			return nil
		}

		fmt.Println("available sound cards:")
		for _, card := range cards {
			fmt.Printf("  %s\n", card)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/mixerctl/config.toml)")
	rootCmd.PersistentFlags().StringP(config.FlagDevice, "D", "default", "alsa-lib mixer device")
	rootCmd.PersistentFlags().String(config.FlagBackend, config.BackendAlsaLib, "Mixer backend: alsalib or kernel")
	rootCmd.PersistentFlags().IntP(config.FlagCard, "c", 0, "Card number for the kernel backend")
	rootCmd.PersistentFlags().Int(config.FlagPollTimeout, 1000, "Poll timeout in milliseconds")
	rootCmd.PersistentFlags().Int(config.FlagStep, 2, "Slider step in percent of its range")
	rootCmd.PersistentFlags().String(config.FlagLogLevel, "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String(config.FlagLogFile, "", "Log file (default $XDG_STATE_HOME/mixerctl/mixerctl.log)")

	setCmd.Flags().Bool("capture", false, "Set the capture volume or switch")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cardsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openDevice opens the configured backend
func openDevice() (mixerctl.Device, error) {
	if cfg.Backend == config.BackendKernel {
		m, err := kernel.Open(uint(cfg.Card), logging.GetLogger("kernel"))
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	m, err := mixerctl.Open(cfg.Device)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newLoop() *loop.Loop {
	return loop.New(
		loop.WithTimeout(time.Duration(cfg.PollTimeoutMs)*time.Millisecond),
		loop.WithLogger(logging.GetLogger("loop")),
	)
}

// runView runs the interactive view until the user quits. Notifications are
// polled on a separate goroutine and handled inside the program's update loop.
func runView(parent context.Context, dev mixerctl.Device) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lp := newLoop()
	app := bridge.New(dev, lp, bridge.WithLogger(logging.GetLogger("bridge")))
	if strings.EqualFold(cfg.UI.StartTab, config.TabCapture) {
		app.Tabs.SetActive(bridge.TabCapture)
	}

	model := tui.New(app, tui.Options{Step: cfg.UI.Step, PageStep: cfg.UI.PageStep})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- lp.Run(ctx, tui.NewDispatcher(p))
	}()

	_, err := p.Run()
	cancel()
	if lerr := <-loopErr; lerr != nil {
		log.Warn("event loop stopped", "error", lerr)
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func findControl(dev mixerctl.Device, name string) (mixerctl.Control, error) {
	ctl, err := mixerctl.FindControl(dev, name)
	if err != nil {
		// try prefix match
		return mixerctl.FindControlByPrefix(dev, name)
	}
	return ctl, nil
}

func printValue(ctl mixerctl.Control) {
	id := mixerctl.ControlID(ctl)
	if ctl.IsEnumerated() {
		if sel, items, err := mixerctl.EnumString(ctl); err == nil {
			fmt.Printf("%s = %s %v\n", id, sel, items)
		}
	}
	for _, dir := range []mixerctl.Direction{mixerctl.Playback, mixerctl.Capture} {
		if !ctl.HasVolume(dir) && !ctl.HasSwitch(dir) {
			continue
		}
		value, err := mixerctl.ValueString(ctl, dir)
		if err != nil {
			value = fmt.Sprintf("error: %v", err)
		}
		fmt.Printf("%s %s = %s\n", id, dir, value)
	}
}

// printEvent prints a notification with the widget state it produced
func printEvent(c mixerctl.Control, mask mixerctl.EventMask, groups []*bridge.Group) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", time.Now().Format("15:04:05.000"), mixerctl.ControlID(c), mask)

	for _, g := range groups {
		fmt.Fprintf(&sb, " [%s]", g.Direction())
		if g.Removed() {
			sb.WriteString(" removed")
			continue
		}
		if s := g.Slider(); s != nil {
			fmt.Fprintf(&sb, " %d", s.Value())
		}
		if ch := g.Choice(); ch != nil {
			fmt.Fprintf(&sb, " %s", ch.SelectedOption())
		}
		if t := g.Toggle(); t != nil {
			if t.Checked() {
				sb.WriteString(" on")
			} else {
				sb.WriteString(" off")
			}
		}
	}

	fmt.Println(sb.String())
}
