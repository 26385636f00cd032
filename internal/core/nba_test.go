package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextBestAction(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		want    string
	}{
		{"email channel", "email", nbaAsyncFollowUp},
		{"whatsapp channel", "whatsapp", nbaAsyncFollowUp},
		{"mixed case email", "Email", nbaAsyncFollowUp},
		{"in person", "in_person", nbaVisitFollowUp},
		{"call", "call", nbaVisitFollowUp},
		{"video", "video", nbaVisitFollowUp},
		{"empty channel", "", nbaVisitFollowUp},
		{"unknown channel", "carrier_pigeon", nbaVisitFollowUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBestAction(tt.channel))
		})
	}
}
