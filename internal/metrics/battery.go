package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BatteryProvider reads charge state from /sys/class/power_supply.
// Machines without a battery still publish samples so bindings render
// something sensible.
type BatteryProvider struct {
	powerSupplyRoot string
	batteryPath     string
	searched        bool
}

// NewBatteryProvider creates a provider over the live /sys.
func NewBatteryProvider() *BatteryProvider {
	return newBatteryProvider("/sys/class/power_supply")
}

func newBatteryProvider(root string) *BatteryProvider {
	return &BatteryProvider{powerSupplyRoot: root}
}

func (p *BatteryProvider) Name() string { return "battery" }

func (p *BatteryProvider) Collect() (map[string]Sample, error) {
	if !p.searched {
		p.batteryPath = p.findBattery()
		p.searched = true
	}

	if p.batteryPath == "" {
		return map[string]Sample{
			"bat.present": Number(0, "no battery"),
			"bat.status":  Text("No Battery"),
		}, nil
	}

	out := map[string]Sample{
		"bat.present": Number(1, "battery"),
	}

	if data, err := os.ReadFile(filepath.Join(p.batteryPath, "capacity")); err == nil {
		if level, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			out["bat.percent"] = Number(float64(level), FormatPercent(float64(level)))
		}
	}

	status := ""
	if data, err := os.ReadFile(filepath.Join(p.batteryPath, "status")); err == nil {
		status = strings.TrimSpace(string(data))
	}
	charging := status == "Charging"
	pluggedIn := charging || status == "Full" || status == "Not charging"

	if charging {
		out["bat.charging"] = Number(1, "charging")
		out["bat.status"] = Text("Charging")
	} else {
		out["bat.charging"] = Number(0, "discharging")
		if pluggedIn {
			out["bat.status"] = Text("Plugged In")
		} else {
			out["bat.status"] = Text("Discharging")
		}
	}
	return out, nil
}

// findBattery locates the first power supply whose type is Battery.
func (p *BatteryProvider) findBattery() string {
	entries, err := os.ReadDir(p.powerSupplyRoot)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		typePath := filepath.Join(p.powerSupplyRoot, entry.Name(), "type")
		data, err := os.ReadFile(typePath)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == "Battery" {
			return filepath.Join(p.powerSupplyRoot, entry.Name())
		}
	}
	return ""
}
