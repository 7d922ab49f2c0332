package domain

import "encoding/json"

type WidgetStatus string

const (
	WidgetActive  WidgetStatus = "active"
	WidgetPaused  WidgetStatus = "paused"
	WidgetDeleted WidgetStatus = "deleted"
)

// KeyKind records which identity a public key resolves through. License
// scoped keys are the legacy embed path; both kinds flow through the same
// serving pipeline.
type KeyKind string

const (
	KeyKindWidget  KeyKind = "widget"
	KeyKindLicense KeyKind = "license"
)

type Widget struct {
	ID             string
	PublicKey      string
	KeyKind        KeyKind
	AccountID      string
	Status         WidgetStatus
	AllowedDomains []string
	Type           string
	Config         json.RawMessage
}

const widgetKeyLength = 32

// ValidWidgetKey reports whether key has the fixed-length alphanumeric
// shape issued by the dashboard. It rejects before any store lookup so
// malformed keys never reach the database.
func ValidWidgetKey(key string) bool {
	if len(key) != widgetKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
