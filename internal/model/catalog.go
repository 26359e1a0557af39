package model

import (
	"time"
)

// Catalog is the ordered list of recordings stored on a device.
// Entry order is the manifest order, which reflects device storage order.
type Catalog struct {
	DeviceIP  string            `json:"device_ip" yaml:"device_ip"`
	Entries   []*RecordingEntry `json:"entries" yaml:"entries"`
	FetchedAt time.Time         `json:"fetched_at" yaml:"fetched_at"`
}

// NewCatalog creates an empty catalog for the device at deviceIP
func NewCatalog(deviceIP string) *Catalog {
	return &Catalog{
		DeviceIP:  deviceIP,
		Entries:   make([]*RecordingEntry, 0),
		FetchedAt: time.Now(),
	}
}

// AddEntry appends an entry, keeping manifest order
func (c *Catalog) AddEntry(entry *RecordingEntry) {
	c.Entries = append(c.Entries, entry)
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Find returns the entry with the given bare file name
func (c *Catalog) Find(fileName string) (*RecordingEntry, bool) {
	for _, entry := range c.Entries {
		if entry.FileName == fileName {
			return entry, true
		}
	}
	return nil, false
}

// FilterByType returns entries of the given recording type, in manifest order
func (c *Catalog) FilterByType(recordingType RecordingType) []*RecordingEntry {
	var filtered []*RecordingEntry
	for _, entry := range c.Entries {
		if entry.Type == recordingType {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// FilterByPosition returns entries recorded by the given camera, in manifest order
func (c *Catalog) FilterByPosition(position CameraPosition) []*RecordingEntry {
	var filtered []*RecordingEntry
	for _, entry := range c.Entries {
		if entry.Position == position {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// GetFileNames returns the bare file names in manifest order
func (c *Catalog) GetFileNames() []string {
	names := make([]string, 0, len(c.Entries))
	for _, entry := range c.Entries {
		names = append(names, entry.FileName)
	}
	return names
}

// CountByType returns how many entries exist per recording type
func (c *Catalog) CountByType() map[RecordingType]int {
	counts := make(map[RecordingType]int)
	for _, entry := range c.Entries {
		counts[entry.Type]++
	}
	return counts
}
