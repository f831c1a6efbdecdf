// Command ansd runs an Alert Notification Service peripheral against the
// in-memory loopback stack: a scripted peer connects, subscribes, enables
// alert categories via the control point, and receives the notifications
// produced by a simulated button. It exercises the full dispatch path
// without a radio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nlmphung/gatt"
	"github.com/nlmphung/gatt/ans"
	"github.com/nlmphung/gatt/gap"
	"github.com/nlmphung/gatt/ias"
)

var rootCmd = &cobra.Command{
	Use:   "ansd",
	Short: "Alert Notification Service demo peripheral",
	Long: `ansd runs a GATT server carrying the Alert Notification Service and
the Immediate Alert Service on an in-memory loopback stack.

A scripted peer session connects, subscribes to the alert
characteristics, enables the configured categories, and prints every
notification it would receive over the air while a simulated button
produces alerts.`,
	RunE: run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.Flags().StringP("config", "c", "", "path to YAML config file")
	rootCmd.Flags().String("log-level", "", "log level: debug, info, warn, or error")
	rootCmd.Flags().BoolP("verbose", "v", false, "shorthand for --log-level debug")
}

// configureLogger builds the logger from --log-level, --verbose, and the
// config file, in that order of precedence.
func configureLogger(cmd *cobra.Command, cfg *Config) (*logrus.Logger, error) {
	levelStr := cfg.LogLevel
	if s, _ := cmd.Flags().GetString("log-level"); s != "" {
		levelStr = s
	} else if v, _ := cmd.Flags().GetBool("verbose"); v {
		levelStr = "debug"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", levelStr)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger, err := configureLogger(cmd, cfg)
	if err != nil {
		return err
	}

	newMask, err := categoryMask(cfg.SupportedNewAlerts)
	if err != nil {
		return err
	}
	unreadMask, err := categoryMask(cfg.SupportedUnreadAlerts)
	if err != nil {
		return err
	}

	stack := gatt.NewMemStack()
	queue := gatt.NewEventQueue(64)

	alerts, err := ans.New(stack, queue, logger)
	if err != nil {
		return err
	}
	alerts.SetSupportedNewAlerts(newMask)
	alerts.SetSupportedUnreadAlerts(unreadMask)

	identity, err := gap.New(stack, cfg.Name, gap.GenericTag)
	if err != nil {
		return err
	}

	immediate, err := ias.New(stack, logger, func(l ias.Level) {
		logger.WithField("level", l.String()).Info("ansd: alert indicator")
	})
	if err != nil {
		return err
	}

	srv := gatt.NewServer(stack, gatt.Name(cfg.Name), gatt.Logger(logger))
	srv.AddService(identity)
	srv.AddService(immediate)
	srv.AddService(alerts)
	if err := srv.Start(); err != nil {
		return err
	}

	for _, a := range stack.Attributes(1, 0xFFFF) {
		logger.WithFields(logrus.Fields{
			"handle": a.Handle,
			"uuid":   a.UUID.String(),
		}).Debug("ansd: attribute")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The scripted peer session. Every stack interaction runs on the
	// queue's dispatch goroutine; nothing here touches shared state.
	queue.Post(func() {
		stack.PeerConnect()
		stack.PeerSubscribe(alerts.NewAlert().ValueHandle())
		stack.PeerSubscribe(alerts.UnreadAlert().ValueHandle())
		cp := alerts.ControlPoint().ValueHandle()
		for c := ans.CategoryID(0); c < ans.CategoryCount; c++ {
			if newMask.Has(c) {
				stack.PeerWrite(cp, []byte{byte(ans.CmdEnableNewAlert), byte(c)})
			}
			if unreadMask.Has(c) {
				stack.PeerWrite(cp, []byte{byte(ans.CmdEnableUnreadAlert), byte(c)})
			}
		}
		logger.Info("ansd: peer session established")
	})

	period := time.Duration(cfg.ButtonPeriod)
	button := queue.PostEvery(period, alerts.ButtonPress)
	defer queue.Cancel(button)

	drain := queue.PostEvery(period/2+time.Millisecond, func() {
		for _, n := range stack.Notifications() {
			logger.WithFields(logrus.Fields{
				"handle": n.Handle,
				"value":  fmt.Sprintf("%x", n.Value),
			}).Info("ansd: peer received notification")
		}
	})
	defer queue.Cancel(drain)

	logger.WithField("name", cfg.Name).Info("ansd: running, interrupt to stop")
	queue.Dispatch(ctx)

	queue.Post(func() { stack.PeerDisconnect() })
	queue.DispatchPending()
	return nil
}
