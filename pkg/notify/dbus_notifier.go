package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/godbus/dbus/v5"
)

const (
	dbusDest       = "org.freedesktop.Notifications"
	dbusPath       = "/org/freedesktop/Notifications"
	dbusNotify     = dbusDest + ".Notify"
	dbusGetCaps    = dbusDest + ".GetCapabilities"
	urgencyCrit    = byte(2)
	expireNever    = int32(0)
	replaceNothing = uint32(0)
)

// ErrUnsupported is returned when no notification service is reachable
var ErrUnsupported = errors.New("notifications unsupported")

// DBusNotifier talks to the freedesktop notification daemon on the session bus.
// Permission stays Undetermined until the daemon has been probed.
type DBusNotifier struct {
	appName string
	logger  *slog.Logger

	mu   sync.Mutex
	conn *dbus.Conn
	perm Permission
}

// NewDBusNotifier creates a notifier that identifies itself as appName
func NewDBusNotifier(appName string, logger *slog.Logger) *DBusNotifier {
	return &DBusNotifier{
		appName: appName,
		logger:  logging.Component(logger, "dbus"),
		perm:    Undetermined,
	}
}

func (n *DBusNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.perm
}

// RequestPermission connects to the session bus and asks the daemon for its capabilities
func (n *DBusNotifier) RequestPermission(ctx context.Context) Permission {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.perm != Undetermined {
		return n.perm
	}

	conn, err := n.connectLocked()
	if err != nil {
		n.logger.Warn("session bus unavailable", "error", err)
		n.perm = Unsupported
		return n.perm
	}

	var caps []string
	obj := conn.Object(dbusDest, dbusPath)
	if err := obj.CallWithContext(ctx, dbusGetCaps, 0).Store(&caps); err != nil {
		if ctx.Err() != nil {
			return Undetermined
		}
		n.logger.Warn("notification daemon unavailable", "error", err)
		n.perm = Unsupported
		return n.perm
	}

	n.logger.Debug("notification daemon found", "capabilities", caps)
	n.perm = Granted
	return n.perm
}

func (n *DBusNotifier) Show(title, body string) error {
	n.mu.Lock()
	conn, err := n.connectLocked()
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyCrit),
	}

	var id uint32
	call := conn.Object(dbusDest, dbusPath).Call(dbusNotify, 0,
		n.appName, replaceNothing, "", title, body, []string{}, hints, expireNever)
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	n.logger.Debug("notification shown", "id", id, "title", title)
	return nil
}

// Close releases the session bus connection
func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

func (n *DBusNotifier) connectLocked() (*dbus.Conn, error) {
	if n.conn != nil {
		return n.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	n.conn = conn
	return conn, nil
}
