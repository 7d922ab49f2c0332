package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"widgetgate/internal/domain"
)

// The compiled bundle reserves a single insertion point between these
// two tokens at build time. Everything between them is replaced with one
// assignment statement at serve time.
const (
	markerStart = "/*__WIDGET_CONFIG_START__*/"
	markerEnd   = "/*__WIDGET_CONFIG_END__*/"

	runtimeGlobal = "window.__WIDGET_RUNTIME__"
)

// RuntimeConfig is every value stamped into the served script. The cache
// key is derived from the same struct, so a field added here is
// automatically part of the key.
type RuntimeConfig struct {
	WidgetID        string      `json:"widgetId"`
	WidgetKey       string      `json:"widgetKey"`
	Tier            domain.Tier `json:"tier"`
	BrandingEnabled bool        `json:"brandingEnabled"`
	DomainLimit     int         `json:"domainLimit"`
	RelayURL        string      `json:"relayUrl"`
}

// CacheKey covers every stamped value. Two requests that would produce
// different output must never share an entry; the key is the marshalled
// config itself, the same bytes Inject stamps, so a field added to the
// struct is part of the key automatically.
func (c RuntimeConfig) CacheKey() string {
	payload, err := json.Marshal(c)
	if err != nil {
		// RuntimeConfig is strings, bools and ints; Marshal cannot
		// fail on it.
		panic(err)
	}
	return string(payload)
}

// Inject replaces the reserved span with the runtime assignment. A
// bundle missing either marker is a hard error: serving the unstamped
// artifact would leave the widget running with its most permissive
// defaults.
func Inject(artifact []byte, cfg RuntimeConfig) ([]byte, error) {
	start := bytes.Index(artifact, []byte(markerStart))
	if start < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBundleMarkers, markerStart)
	}
	rest := artifact[start+len(markerStart):]
	end := bytes.Index(rest, []byte(markerEnd))
	if end < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBundleMarkers, markerEnd)
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal runtime config: %w", err)
	}
	stamp := []byte(runtimeGlobal + " = " + string(payload) + ";")

	out := make([]byte, 0, len(artifact)-end+len(stamp))
	out = append(out, artifact[:start]...)
	out = append(out, stamp...)
	out = append(out, rest[end+len(markerEnd):]...)
	return out, nil
}
