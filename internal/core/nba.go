package core

import (
	"strings"

	"hcpcrm/pkg"
)

// Canned next-best-action recommendations. Async channels get a written
// follow-up; everything else gets a visit/call.
const (
	nbaAsyncFollowUp = "Send a balanced follow-up message with approved materials and confirm next meeting date."
	nbaVisitFollowUp = "Schedule a follow-up visit/call and share approved clinical summary + address any objections."
)

// NextBestAction maps a communication channel to a recommended action. It
// is a pure total function: unknown or empty channels fall through to the
// visit/call recommendation.
func NextBestAction(channel string) string {
	switch strings.ToLower(channel) {
	case pkg.ChannelEmail, pkg.ChannelWhatsApp:
		return nbaAsyncFollowUp
	default:
		return nbaVisitFollowUp
	}
}
