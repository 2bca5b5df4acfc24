// Command remindctl manages schedule reminders from the terminal.
// It shares the scheduling core with the desktop app but keeps its data in SQLite.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgmon/schedule-reminder/pkg/calendar"
	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/store"
)

const (
	envPrefix = "REMINDCTL"
	dbName    = "reminders.db"
)

type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	logger *slog.Logger
}

func main() {
	c := &cli{
		v:      viper.New(),
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
	}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "remindctl",
		Short: "Schedule Reminder CLI",
		Long: `remindctl records schedule items and notifies you shortly before each
one starts and ends.
- Items: a title, an optional description, a start time and an optional end time.
- Lead time: how many minutes (0-10) before a start or end the notification fires. 0 turns reminders off.
- Each start and end is notified at most once. Boundaries missed while nothing was running are skipped.
- Run 'remindctl watch' to keep checking in the foreground, or 'remindctl check' from cron.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	c.addPersistentFlags(root)
	c.registerCommands(root)
	return root
}

func (c *cli) addPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringP("data-dir", "d", defaultDataDir(), "directory holding the reminder database")
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = c.v.BindPFlag("data-dir", root.PersistentFlags().Lookup("data-dir"))
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = c.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag("log-format", root.PersistentFlags().Lookup("log-format"))
}

func (c *cli) registerCommands(root *cobra.Command) {
	root.AddCommand(c.addCmd())
	root.AddCommand(c.listCmd())
	root.AddCommand(c.upcomingCmd())
	root.AddCommand(c.updateCmd())
	root.AddCommand(c.toggleCmd())
	root.AddCommand(c.removeCmd())
	root.AddCommand(c.checkCmd())
	root.AddCommand(c.watchCmd())
	root.AddCommand(c.settingsCmd())
	root.AddCommand(c.importCmd())
	root.AddCommand(c.exportCmd())
}

// initConfig layers flags over REMINDCTL_* environment variables over
// an optional config file in the data directory.
func (c *cli) initConfig() error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	dataDir := c.v.GetString("data-dir")
	if dataDir == "" {
		return errors.New("--data-dir is required")
	}
	c.v.SetConfigName("config")
	c.v.AddConfigPath(dataDir)
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logger, err := logging.New(c.errOut, c.v.GetString("log-level"), c.v.GetString("log-format"))
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "schedule-reminder")
}

type stores struct {
	repo     *store.ScheduleRepository
	settings *store.SettingsStore
}

// withStores opens the database for the duration of fn
func (c *cli) withStores(fn func(*stores) error) error {
	kv, err := store.OpenSQLiteKV(filepath.Join(c.v.GetString("data-dir"), dbName))
	if err != nil {
		return err
	}
	defer kv.Close()

	repo := store.NewScheduleRepository(kv, c.logger)
	repo.Now = c.now
	return fn(&stores{
		repo:     repo,
		settings: store.NewSettingsStore(kv, c.logger),
	})
}

func (c *cli) newImporter() *calendar.Importer {
	im := calendar.NewImporter(c.logger)
	im.Now = c.now
	return im
}
