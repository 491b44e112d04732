package metrics

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
)

// SystemProvider reads CPU, memory, disk, temperature, and host
// identity from /proc and /sys. CPU usage is a delta between polls, so
// the first poll reports 0.
type SystemProvider struct {
	procRoot      string
	sysRoot       string
	diskPath      string
	osReleasePath string

	lastTotal uint64
	lastIdle  uint64

	hostname string
	username string
	cores    int
}

// NewSystemProvider creates a provider over the live /proc and /sys.
func NewSystemProvider() *SystemProvider {
	return newSystemProvider("/proc", "/sys", "/", "/etc/os-release")
}

func newSystemProvider(procRoot, sysRoot, diskPath, osReleasePath string) *SystemProvider {
	p := &SystemProvider{
		procRoot:      procRoot,
		sysRoot:       sysRoot,
		diskPath:      diskPath,
		osReleasePath: osReleasePath,
		cores:         runtime.NumCPU(),
	}
	p.hostname, _ = os.Hostname()
	if u, err := user.Current(); err == nil {
		p.username = u.Username
	}
	return p
}

func (p *SystemProvider) Name() string { return "system" }

// Collect gathers one snapshot. Sources that cannot be read are left
// out rather than failing the whole poll.
func (p *SystemProvider) Collect() (map[string]Sample, error) {
	out := make(map[string]Sample)

	if pct, ok := p.readCPU(); ok {
		out["cpu.percent"] = Number(pct, FormatPercent(pct))
	}
	out["cpu.cores"] = Number(float64(p.cores), strconv.Itoa(p.cores))
	if model := p.cpuModel(); model != "" {
		out["cpu.model"] = Text(model)
	}
	if mhz, ok := p.cpuFrequency(); ok {
		out["cpu.freq"] = Number(mhz, fmt.Sprintf("%.0f MHz", mhz))
	}

	p.readMemory(out)
	p.readDisk(out)

	if temp, ok := p.readTemperature(); ok {
		out["temp.cpu"] = Number(temp, fmt.Sprintf("%.0f°C", temp))
	}

	if count, ok := p.processCount(); ok {
		out["proc.count"] = Number(float64(count), strconv.Itoa(count))
	}
	if secs, ok := p.uptimeSeconds(); ok {
		out["uptime"] = Number(float64(secs), FormatUptime(secs))
	}

	if p.hostname != "" {
		out["host.name"] = Text(p.hostname)
	}
	if p.username != "" {
		out["host.user"] = Text(p.username)
	}
	p.readOSRelease(out)
	if kernel := p.kernelVersion(); kernel != "" {
		out["host.kernel"] = Text(kernel)
	}

	return out, nil
}

// readCPU computes usage from the aggregate cpu line of /proc/stat.
func (p *SystemProvider) readCPU() (float64, bool) {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "stat"))
	if err != nil {
		return 0, false
	}

	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(line)
	if len(fields) < 8 || fields[0] != "cpu" {
		return 0, false
	}

	var counters [7]uint64
	for i := range counters {
		counters[i], _ = strconv.ParseUint(fields[i+1], 10, 64)
	}
	var total uint64
	for _, c := range counters {
		total += c
	}
	idle := counters[3]

	usage := 0.0
	if p.lastTotal > 0 && total > p.lastTotal {
		totalDiff := total - p.lastTotal
		idleDiff := idle - p.lastIdle
		usage = 100 * float64(totalDiff-idleDiff) / float64(totalDiff)
	}

	p.lastTotal = total
	p.lastIdle = idle
	return usage, true
}

func (p *SystemProvider) readMemory(out map[string]Sample) {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "meminfo"))
	if err != nil {
		return
	}

	values := make(map[string]int64)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSuffix(fields[0], ":")
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		values[key] = kb * 1024
	}

	total := values["MemTotal"]
	if total <= 0 {
		return
	}
	available := values["MemAvailable"]
	if available == 0 {
		available = values["MemFree"] + values["Buffers"] + values["Cached"]
	}
	used := total - available

	pct := 100 * float64(used) / float64(total)
	out["mem.percent"] = Number(pct, FormatPercent(pct))
	out["mem.used"] = Number(float64(used), humanize.IBytes(uint64(used)))
	out["mem.total"] = Number(float64(total), humanize.IBytes(uint64(total)))

	if swapTotal := values["SwapTotal"]; swapTotal > 0 {
		swapUsed := swapTotal - values["SwapFree"]
		swapPct := 100 * float64(swapUsed) / float64(swapTotal)
		out["swap.percent"] = Number(swapPct, FormatPercent(swapPct))
	}
}

func (p *SystemProvider) readDisk(out map[string]Sample) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(p.diskPath, &st); err != nil {
		return
	}

	total := st.Blocks * uint64(st.Bsize)
	free := st.Bfree * uint64(st.Bsize)
	if total == 0 {
		return
	}
	used := total - free

	pct := 100 * float64(used) / float64(total)
	out["disk.percent"] = Number(pct, FormatPercent(pct))
	out["disk.used"] = Number(float64(used), humanize.IBytes(used))
	out["disk.total"] = Number(float64(total), humanize.IBytes(total))
	out["disk.free"] = Number(float64(free), humanize.IBytes(free))
}

// readTemperature tries the usual sysfs sources in order. Values over
// 1000 are millidegrees.
func (p *SystemProvider) readTemperature() (float64, bool) {
	paths := []string{
		"class/thermal/thermal_zone0/temp",
		"class/hwmon/hwmon0/temp1_input",
		"class/hwmon/hwmon1/temp1_input",
		"devices/platform/coretemp.0/hwmon/hwmon0/temp1_input",
	}

	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(p.sysRoot, rel))
		if err != nil {
			continue
		}
		temp, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			continue
		}
		if temp > 1000 {
			temp /= 1000
		}
		return temp, true
	}
	return 0, false
}

func (p *SystemProvider) processCount() (int, bool) {
	entries, err := os.ReadDir(p.procRoot)
	if err != nil {
		return 0, false
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(entry.Name()); err == nil {
			count++
		}
	}
	return count, true
}

func (p *SystemProvider) uptimeSeconds() (int64, bool) {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "uptime"))
	if err != nil {
		return 0, false
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return int64(secs), true
}

func (p *SystemProvider) cpuModel() string {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "cpuinfo"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "model name") {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (p *SystemProvider) cpuFrequency() (float64, bool) {
	data, err := os.ReadFile(filepath.Join(p.sysRoot, "devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"))
	if err != nil {
		return 0, false
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, false
	}
	return khz / 1000, true
}

func (p *SystemProvider) readOSRelease(out map[string]Sample) {
	data, err := os.ReadFile(p.osReleasePath)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if value, ok := strings.CutPrefix(line, "NAME="); ok {
			out["host.os"] = Text(strings.Trim(value, `"`))
		}
		if value, ok := strings.CutPrefix(line, "VERSION="); ok {
			out["host.os_version"] = Text(strings.Trim(value, `"`))
		}
	}
}

func (p *SystemProvider) kernelVersion() string {
	data, err := os.ReadFile(filepath.Join(p.procRoot, "version"))
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return ""
	}
	return fields[2]
}
