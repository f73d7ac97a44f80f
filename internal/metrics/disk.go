package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
)

// DiskCollector reads mounted filesystem usage via gopsutil.
type DiskCollector struct {
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskCollector creates a disk collector backed by the host OS.
func NewDiskCollector() *DiskCollector {
	return &DiskCollector{
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

// Source returns SourceDisk.
func (c *DiskCollector) Source() Source { return SourceDisk }

// Collect returns every mounted volume with a non-zero size.
// Listing partitions is the only query whose failure fails the reading;
// a mount whose usage can't be read (autofs, revoked FUSE mounts) is
// skipped like any other pseudo filesystem. No disks yields an empty
// reading.
func (c *DiskCollector) Collect(ctx context.Context) (Reading, error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return nil, collectionError(SourceDisk, err)
	}

	reading := DiskReading{Volumes: make([]DiskVolume, 0, len(parts))}
	seen := make(map[string]bool)

	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, collectionError(SourceDisk, err)
		}

		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil || u == nil || u.Total == 0 {
			continue
		}
		seen[p.Mountpoint] = true

		reading.Volumes = append(reading.Volumes, DiskVolume{
			Mount:        p.Mountpoint,
			Device:       p.Device,
			FSType:       p.Fstype,
			SizeGB:       BytesToGB(u.Total),
			UsedGB:       BytesToGB(u.Used),
			FreeGB:       BytesToGB(u.Free),
			UsagePercent: Percent(u.Used, u.Total),
		})
	}

	return reading, nil
}
