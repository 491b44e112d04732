package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// NetworkProvider reads interface counters from /proc/net/dev and
// derives transfer rates from the delta between polls. Loopback is
// ignored. The first poll reports totals only; rates need a baseline.
type NetworkProvider struct {
	procRoot string
	now      func() time.Time

	lastRx map[string]uint64
	lastTx map[string]uint64
	lastAt time.Time
}

// NewNetworkProvider creates a provider over the live /proc.
func NewNetworkProvider() *NetworkProvider {
	return newNetworkProvider("/proc")
}

func newNetworkProvider(procRoot string) *NetworkProvider {
	return &NetworkProvider{
		procRoot: procRoot,
		now:      time.Now,
		lastRx:   make(map[string]uint64),
		lastTx:   make(map[string]uint64),
	}
}

func (p *NetworkProvider) Name() string { return "network" }

func (p *NetworkProvider) Collect() (map[string]Sample, error) {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "net/dev"))
	if err != nil {
		return nil, err
	}

	var (
		totalRx, totalTx uint64
		rxRate, txRate   float64
		interfaces       []string
	)

	at := p.now()
	elapsed := at.Sub(p.lastAt).Seconds()

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if i < 2 {
			continue
		}
		iface, counters, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		iface = strings.TrimSpace(iface)
		if iface == "" || iface == "lo" {
			continue
		}
		fields := strings.Fields(counters)
		if len(fields) < 9 {
			continue
		}
		rx, _ := strconv.ParseUint(fields[0], 10, 64)
		tx, _ := strconv.ParseUint(fields[8], 10, 64)

		if last, seen := p.lastRx[iface]; seen && !p.lastAt.IsZero() && elapsed > 0 {
			if rx >= last {
				rxRate += float64(rx-last) / elapsed
			}
			if lastT := p.lastTx[iface]; tx >= lastT {
				txRate += float64(tx-lastT) / elapsed
			}
		}

		p.lastRx[iface] = rx
		p.lastTx[iface] = tx
		totalRx += rx
		totalTx += tx
		interfaces = append(interfaces, iface)
	}
	p.lastAt = at

	out := map[string]Sample{
		"net.down":       Number(rxRate, FormatSpeed(rxRate)),
		"net.up":         Number(txRate, FormatSpeed(txRate)),
		"net.down_total": Number(float64(totalRx), humanize.IBytes(totalRx)),
		"net.up_total":   Number(float64(totalTx), humanize.IBytes(totalTx)),
	}
	if len(interfaces) > 0 {
		out["net.connected"] = Number(1, "connected")
		out["net.iface"] = Text(interfaces[0])
	} else {
		out["net.connected"] = Number(0, "disconnected")
	}
	return out, nil
}
