package tracker

import (
	"regexp"
	"strings"
)

var ticketPattern = regexp.MustCompile(`(?i)RITM\d+`)

// ExtractTicketCode returns the first ticket code in text, upper-cased, or
// "" when there is none.
func ExtractTicketCode(text string) string {
	return strings.ToUpper(ticketPattern.FindString(text))
}

// ResolveTicketCode prefers an explicit code over one embedded in the
// activity text.
func ResolveTicketCode(explicit, activity string) string {
	if code := normalizeCode(explicit); code != "" {
		return code
	}
	return ExtractTicketCode(activity)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
