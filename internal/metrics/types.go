package metrics

// Source identifies one independently collected metric source.
type Source string

const (
	SourceCPU     Source = "cpu"
	SourceMemory  Source = "memory"
	SourceDisk    Source = "disk"
	SourceNetwork Source = "network"
)

// AllSources lists every metric source in display order.
var AllSources = []Source{SourceCPU, SourceMemory, SourceDisk, SourceNetwork}

// String returns the source id.
func (s Source) String() string {
	return string(s)
}

// Label returns a short display label for the source.
func (s Source) Label() string {
	switch s {
	case SourceCPU:
		return "CPU"
	case SourceMemory:
		return "Memory"
	case SourceDisk:
		return "Disk"
	case SourceNetwork:
		return "Network"
	default:
		return string(s)
	}
}

// Reading is an immutable value produced by a collector.
// The concrete type depends on the source.
type Reading interface {
	Source() Source
}

// CPUReading contains CPU usage information.
type CPUReading struct {
	Usage    float64   `json:"usage"`     // percent, 2 decimals
	PerCore  []float64 `json:"per_core"`  // percent per logical core
	Model    string    `json:"model"`     // e.g. "AMD Ryzen 9 7950X"
	SpeedGHz float64   `json:"speed_ghz"` // nominal clock, 2 decimals
}

// MemoryReading contains memory usage in GB.
type MemoryReading struct {
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskVolume is one mounted filesystem with a non-zero size.
type DiskVolume struct {
	Mount        string  `json:"mount"`
	Device       string  `json:"device"`
	FSType       string  `json:"fs_type"`
	SizeGB       float64 `json:"size_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskReading lists mounted volumes. The first volume is the primary.
type DiskReading struct {
	Volumes []DiskVolume `json:"volumes"`
}

// NetInterface holds cumulative traffic (MB) and current rates (KB/s).
type NetInterface struct {
	Name   string  `json:"name"`
	RxMB   float64 `json:"rx_mb"`
	TxMB   float64 `json:"tx_mb"`
	RxKBps float64 `json:"rx_kbps"`
	TxKBps float64 `json:"tx_kbps"`
}

// NetworkReading lists network interfaces in OS order.
type NetworkReading struct {
	Interfaces []NetInterface `json:"interfaces"`
}

func (CPUReading) Source() Source     { return SourceCPU }
func (MemoryReading) Source() Source  { return SourceMemory }
func (DiskReading) Source() Source    { return SourceDisk }
func (NetworkReading) Source() Source { return SourceNetwork }

// Primary returns the volume used for summary display.
func (d DiskReading) Primary() (DiskVolume, bool) {
	if len(d.Volumes) == 0 {
		return DiskVolume{}, false
	}
	return d.Volumes[0], true
}

// Active returns the first interface with a non-zero current rate,
// falling back to the first interface overall.
func (n NetworkReading) Active() (NetInterface, bool) {
	if len(n.Interfaces) == 0 {
		return NetInterface{}, false
	}
	for _, iface := range n.Interfaces {
		if iface.RxKBps > 0 || iface.TxKBps > 0 {
			return iface, true
		}
	}
	return n.Interfaces[0], true
}

// Default returns the zeroed reading substituted when a source fails.
func Default(s Source) Reading {
	switch s {
	case SourceCPU:
		return CPUReading{}
	case SourceMemory:
		return MemoryReading{}
	case SourceDisk:
		return DiskReading{}
	case SourceNetwork:
		return NetworkReading{}
	default:
		return nil
	}
}
