package calendar

import (
	"regexp"
	"strings"
)

var (
	urlRegex        = regexp.MustCompile(`https?://[^\s<>"{}|\\^[\]` + "`" + `]+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9]+`)
	meetingPlatform = []string{"zoom", "meet.google", "teams.microsoft", "webex", "gotomeeting"}
)

// ExtractMeetingLink returns the most likely meeting URL in text, or ""
func ExtractMeetingLink(text string) string {
	matches := urlRegex.FindAllString(text, -1)

	// Prioritize known meeting platforms
	for _, match := range matches {
		lower := strings.ToLower(match)
		for _, platform := range meetingPlatform {
			if strings.Contains(lower, platform) {
				return match
			}
		}
	}

	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// isCancelledTitle catches calendars that only mark cancellation in the summary
func isCancelledTitle(title string) bool {
	clean := nonAlnumRegex.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}
