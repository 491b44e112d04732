package metrics

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const mprisPrefix = "org.mpris.MediaPlayer2."

// MediaProvider reads the current track from the first MPRIS player on
// the session bus. The connection is established lazily on the first
// poll so headless machines without a bus only fail the media family.
type MediaProvider struct {
	conn *dbus.Conn
}

// NewMediaProvider creates an unconnected provider.
func NewMediaProvider() *MediaProvider {
	return &MediaProvider{}
}

func (p *MediaProvider) Name() string { return "media" }

func (p *MediaProvider) Collect() (map[string]Sample, error) {
	if p.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			return nil, fmt.Errorf("connecting to session bus: %w", err)
		}
		p.conn = conn
	}

	player, err := p.findPlayer()
	if err != nil {
		return nil, err
	}
	if player == "" {
		return map[string]Sample{
			"media.present": Number(0, "no player"),
			"media.status":  Text("Stopped"),
		}, nil
	}

	obj := p.conn.Object(player, "/org/mpris/MediaPlayer2")

	out := map[string]Sample{
		"media.present": Number(1, "player"),
		"media.player":  Text(playerShortName(player)),
	}

	if v, err := obj.GetProperty("org.mpris.MediaPlayer2.Player.PlaybackStatus"); err == nil {
		if status, ok := v.Value().(string); ok {
			out["media.status"] = Text(status)
			if status == "Playing" {
				out["media.playing"] = Number(1, "playing")
			} else {
				out["media.playing"] = Number(0, strings.ToLower(status))
			}
		}
	}

	if v, err := obj.GetProperty("org.mpris.MediaPlayer2.Player.Metadata"); err == nil {
		if md, ok := v.Value().(map[string]dbus.Variant); ok {
			mergeMetadata(out, md)
		}
	}

	return out, nil
}

// Close releases the bus connection.
func (p *MediaProvider) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// findPlayer returns the first MPRIS bus name, empty when no player is
// running.
func (p *MediaProvider) findPlayer() (string, error) {
	var names []string
	err := p.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return "", fmt.Errorf("listing bus names: %w", err)
	}
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			return name, nil
		}
	}
	return "", nil
}

// playerShortName reduces org.mpris.MediaPlayer2.firefox.instance42 to
// firefox.
func playerShortName(busName string) string {
	short := strings.TrimPrefix(busName, mprisPrefix)
	if first, _, ok := strings.Cut(short, "."); ok {
		return first
	}
	return short
}

// mergeMetadata copies the xesam/mpris fields widgets bind against.
// Players disagree on value types, so each field is extracted with an
// ok-guard and skipped when the shape is unexpected.
func mergeMetadata(out map[string]Sample, md map[string]dbus.Variant) {
	if v, ok := md["xesam:title"]; ok {
		if title, ok := v.Value().(string); ok && title != "" {
			out["media.title"] = Text(title)
		}
	}
	if v, ok := md["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				out["media.artist"] = Text(strings.Join(artists, ", "))
			}
		case string:
			if artists != "" {
				out["media.artist"] = Text(artists)
			}
		}
	}
	if v, ok := md["xesam:album"]; ok {
		if album, ok := v.Value().(string); ok && album != "" {
			out["media.album"] = Text(album)
		}
	}
	if v, ok := md["mpris:artUrl"]; ok {
		if url, ok := v.Value().(string); ok && url != "" {
			out["media.art_url"] = Text(url)
		}
	}
	if v, ok := md["mpris:length"]; ok {
		var micros int64
		switch length := v.Value().(type) {
		case int64:
			micros = length
		case uint64:
			micros = int64(length)
		case int32:
			micros = int64(length)
		}
		if micros > 0 {
			secs := micros / 1_000_000
			out["media.length"] = Number(float64(secs), fmt.Sprintf("%d:%02d", secs/60, secs%60))
		}
	}
}
