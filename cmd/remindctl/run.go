package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/borgmon/schedule-reminder/pkg/audio"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/borgmon/schedule-reminder/pkg/notify"
	"github.com/borgmon/schedule-reminder/pkg/policy"
	"github.com/borgmon/schedule-reminder/pkg/scheduler"
)

const (
	appName = "Schedule Reminder"

	// upper bound on waiting for a chime before the process exits
	chimeSettleTimeout = 3 * time.Second
)

// stdoutNotifier prints notifications instead of showing them on the desktop
type stdoutNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *stdoutNotifier) Permission() notify.Permission { return notify.Granted }

func (n *stdoutNotifier) RequestPermission(ctx context.Context) notify.Permission {
	return notify.Granted
}

func (n *stdoutNotifier) Show(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "%s  %s\n", title, body)
	return err
}

type delivery struct {
	notifier   notify.Notifier
	chime      *audio.Player
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
	close      func()
}

// newDelivery builds the delivery side selected by the notifier and chime settings
func (c *cli) newDelivery(ctx context.Context, s *stores) (*delivery, error) {
	d := &delivery{logger: c.logger, close: func() {}}

	switch kind := c.v.GetString("notifier"); kind {
	case "dbus":
		n := notify.NewDBusNotifier(appName, c.logger)
		d.notifier = n
		d.close = func() { _ = n.Close() }
		if perm := n.RequestPermission(ctx); perm != notify.Granted {
			c.logger.Warn("desktop notifications not available", "permission", perm.String())
		}
	case "stdout":
		w := c.out
		if c.v.GetBool("json") {
			w = c.errOut
		}
		d.notifier = &stdoutNotifier{w: w}
	default:
		return nil, fmt.Errorf("unknown notifier %q (want dbus or stdout)", kind)
	}

	var chime notify.Chime
	if c.v.GetBool("chime") {
		d.chime = audio.NewPlayer(c.logger)
		chime = d.chime
	}
	d.dispatcher = notify.NewDispatcher(d.notifier, chime, s.repo, c.logger)
	return d, nil
}

// settle lets background permission requests and chimes finish before exit
func (d *delivery) settle() {
	d.dispatcher.Wait()
	if d.chime != nil && !d.chime.WaitIdle(chimeSettleTimeout) {
		d.logger.Warn("chime still playing at exit", "playing", d.chime.Playing())
	}
	d.close()
}

func (c *cli) addDeliveryFlags(cmd *cobra.Command) {
	cmd.Flags().String("notifier", "dbus", "where notifications go (dbus, stdout)")
	cmd.Flags().Bool("chime", true, "play a chime with each notification")
	// bound when the command runs so check and watch do not share flag sets
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		return c.v.BindPFlags(cmd.Flags())
	}
}

type dispatchResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Boundary string `json:"boundary"`
	Minutes  int    `json:"minutes_left"`
	Outcome  string `json:"outcome"`
}

func (c *cli) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate every item once and send the notifications that are due",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStores(func(s *stores) error {
				d, err := c.newDelivery(cmd.Context(), s)
				if err != nil {
					return err
				}

				var results []dispatchResult
				p := scheduler.New(scheduler.Options{
					Items:      s.repo,
					Settings:   s.settings,
					Dispatcher: d.dispatcher,
					Now:        c.now,
					Logger:     c.logger,
					OnDispatch: func(item models.ScheduleItem, due policy.Due, outcome notify.Outcome) {
						results = append(results, dispatchResult{
							ID:       item.ID,
							Title:    item.Title,
							Boundary: due.Boundary.String(),
							Minutes:  due.MinutesLeft,
							Outcome:  outcome.String(),
						})
					},
				})
				p.Tick(cmd.Context())
				d.settle()

				if c.v.GetBool("json") {
					if results == nil {
						results = []dispatchResult{}
					}
					return printJSON(c.out, results)
				}
				if len(results) == 0 {
					fmt.Fprintln(c.out, "Nothing due.")
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(c.out, "%-9s %-5s %s (%s, %d min)\n", r.Outcome, r.Boundary, r.Title, shortID(r.ID), r.Minutes)
				}
				return nil
			})
		},
	}
	c.addDeliveryFlags(cmd)
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep checking in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.withStores(func(s *stores) error {
				d, err := c.newDelivery(ctx, s)
				if err != nil {
					return err
				}
				defer d.settle()

				p := scheduler.New(scheduler.Options{
					Items:      s.repo,
					Settings:   s.settings,
					Dispatcher: d.dispatcher,
					Interval:   c.v.GetDuration("interval"),
					Now:        c.now,
					Logger:     c.logger,
				})
				handle, err := p.Start(ctx)
				if err != nil {
					return err
				}
				c.logger.Info("watching schedule",
					"interval", c.v.GetDuration("interval").String(),
					"lead_minutes", s.settings.Load().LeadMinutes,
				)
				<-handle.Done()
				handle.Stop()
				return nil
			})
		},
	}
	c.addDeliveryFlags(cmd)
	cmd.Flags().Duration("interval", scheduler.DefaultInterval, "time between checks")
	return cmd
}
