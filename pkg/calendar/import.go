// Package calendar imports schedule items from iCalendar feeds and exports them back.
package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/borgmon/schedule-reminder/pkg/models"
	"github.com/emersion/go-ical"
)

// DefaultHorizon is how far ahead recurring events are expanded
const DefaultHorizon = 7 * 24 * time.Hour

// ErrNotICalendar is returned when a source does not contain iCalendar data
var ErrNotICalendar = errors.New("not an iCalendar document")

// Importer reads events from .ics files or URLs and turns them into new items
type Importer struct {
	Client  *http.Client
	Horizon time.Duration
	Now     func() time.Time
	logger  *slog.Logger
}

// NewImporter creates an importer with a 30 second HTTP timeout
func NewImporter(logger *slog.Logger) *Importer {
	return &Importer{
		Client:  &http.Client{Timeout: 30 * time.Second},
		Horizon: DefaultHorizon,
		Now:     time.Now,
		logger:  logging.Component(logger, "calendar"),
	}
}

// Fetch loads source, which is either an http(s) URL or a file path, and parses it
func (im *Importer) Fetch(ctx context.Context, source string) ([]models.NewItem, error) {
	var data []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = im.download(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}
	return im.Parse(bytes.NewReader(data))
}

func (im *Importer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := im.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Parse decodes every calendar in r and returns the events that are still ahead,
// with recurring events expanded up to the horizon
func (im *Importer) Parse(r io.Reader) ([]models.NewItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := validateICalFormat(string(data)); err != nil {
		return nil, err
	}

	now := im.Now()
	horizon := im.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	until := now.Add(horizon)

	stats := &importStats{}
	seen := make(map[string]bool)
	var items []models.NewItem

	decoder := ical.NewDecoder(bytes.NewReader(data))
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.events++

			normalizeTimezones(comp)
			ev, ok := im.parseEvent(comp, stats)
			if !ok {
				continue
			}

			occurrences, err := expandOccurrences(comp, ev, now, until)
			if err != nil {
				stats.invalidRule++
				im.logger.Warn("skipping event with invalid recurrence", "title", ev.title, "error", err)
				continue
			}
			if occurrences == nil {
				occurrences = []occurrence{{start: ev.start, end: ev.end}}
			}

			for _, occ := range occurrences {
				if !inWindow(occ, now, until) {
					stats.outsideWindow++
					continue
				}
				key := ev.title + "|" + occ.start.UTC().Format(time.RFC3339)
				if seen[key] {
					stats.duplicates++
					continue
				}
				seen[key] = true
				items = append(items, ev.item(occ))
			}
		}
	}

	stats.log(im.logger, len(items))
	return items, nil
}

// event is the part of a VEVENT that becomes a schedule item
type event struct {
	uid         string
	title       string
	description string
	start       time.Time
	end         time.Time
}

type occurrence struct {
	start, end time.Time
}

func (e event) item(occ occurrence) models.NewItem {
	item := models.NewItem{
		Title:       e.title,
		Description: e.description,
		StartTime:   occ.start,
	}
	if !occ.end.IsZero() && occ.end.After(occ.start) {
		end := occ.end
		item.EndTime = &end
	}
	return item
}

func (im *Importer) parseEvent(comp *ical.Component, stats *importStats) (event, bool) {
	loc := eventLocation(comp, time.Local)
	ev := event{}

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		ev.uid = prop.Value
	}
	ev.title = strings.TrimSpace(textValue(comp.Props.Get(ical.PropSummary)))
	ev.description = textValue(comp.Props.Get(ical.PropDescription))

	status := ""
	if prop := comp.Props.Get(ical.PropStatus); prop != nil {
		status = strings.ToUpper(prop.Value)
	}
	if status == "CANCELLED" || isCancelledTitle(ev.title) {
		stats.cancelled++
		im.logger.Debug("skipping cancelled event", "title", ev.title)
		return ev, false
	}

	dtstart := comp.Props.Get(ical.PropDateTimeStart)
	if dtstart == nil || ev.title == "" {
		stats.missingFields++
		return ev, false
	}
	if isDateOnly(dtstart) {
		stats.allDay++
		im.logger.Debug("skipping all-day event", "title", ev.title)
		return ev, false
	}

	start, err := dtstart.DateTime(loc)
	if err != nil {
		stats.missingFields++
		im.logger.Debug("skipping event with unreadable start", "title", ev.title, "error", err)
		return ev, false
	}
	ev.start = start

	if dtend := comp.Props.Get(ical.PropDateTimeEnd); dtend != nil {
		if end, err := dtend.DateTime(loc); err == nil {
			ev.end = end
		}
	} else if dur := comp.Props.Get(ical.PropDuration); dur != nil {
		if d, err := dur.Duration(); err == nil {
			ev.end = start.Add(d)
		}
	}

	return ev, true
}

// textValue unescapes a TEXT property, falling back to the raw value
func textValue(prop *ical.Prop) string {
	if prop == nil {
		return ""
	}
	if text, err := prop.Text(); err == nil {
		return text
	}
	return prop.Value
}

// isDateOnly reports whether the property carries a date without a time
func isDateOnly(prop *ical.Prop) bool {
	if strings.EqualFold(prop.Params.Get(ical.ParamValue), string(ical.ValueDate)) {
		return true
	}
	return len(prop.Value) == len("20060102")
}

// inWindow keeps occurrences that have not finished yet and begin before until
func inWindow(occ occurrence, now, until time.Time) bool {
	if !occ.start.Before(until) {
		return false
	}
	ref := occ.start
	if !occ.end.IsZero() {
		ref = occ.end
	}
	return ref.After(now)
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)

	// Check if response is HTML instead of iCalendar
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("%w: received HTML, check if the URL requires authentication", ErrNotICalendar)
	}

	if !strings.HasPrefix(upper, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("%w: expected BEGIN:VCALENDAR, got: %q", ErrNotICalendar, preview)
	}
	return nil
}

type importStats struct {
	events        int
	cancelled     int
	allDay        int
	missingFields int
	invalidRule   int
	outsideWindow int
	duplicates    int
}

func (s *importStats) log(logger *slog.Logger, included int) {
	logger.Info("calendar parsed",
		"events", s.events,
		"included", included,
		"cancelled", s.cancelled,
		"all_day", s.allDay,
		"missing_fields", s.missingFields,
		"invalid_rule", s.invalidRule,
		"outside_window", s.outsideWindow,
		"duplicates", s.duplicates,
	)
}
