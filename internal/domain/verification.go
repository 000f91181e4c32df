package domain

import "time"

type Channel string

const (
	ChannelAcademic Channel = "academic"
	ChannelBooks    Channel = "books"
	ChannelWeb      Channel = "web"
)

func ValidChannel(c string) bool {
	switch Channel(c) {
	case ChannelAcademic, ChannelBooks, ChannelWeb:
		return true
	}
	return false
}

type AccuracyLabel string

const (
	AccuracyAccurate            AccuracyLabel = "accurate"
	AccuracyPartiallyInaccurate AccuracyLabel = "partially-inaccurate"
	AccuracyInaccurate          AccuracyLabel = "inaccurate"
)

// MaxCitedSources bounds VerificationVerdict.CitedSources.
const MaxCitedSources = 3

type VerificationRequest struct {
	Channel Channel `json:"channel"`
	Query   string  `json:"query"`
}

type VerificationVerdict struct {
	Channel       Channel       `json:"channel"`
	Query         string        `json:"query"`
	AccuracyLabel AccuracyLabel `json:"accuracy_label"`
	Commentary    string        `json:"commentary"`
	Supplement    *string       `json:"supplement"`
	CitedSources  []SearchItem  `json:"cited_sources"`
	RetrievedAt   time.Time     `json:"retrieved_at"`
}
