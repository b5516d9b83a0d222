package entity

// VolumeBin is a half-open (lower, upper] bucket for per-order pick volume.
type VolumeBin struct {
	Label string
	Lower int // exclusive
	Upper int // inclusive
}

// VolumeBins is the single source of truth for order-volume binning: the
// curated mart SQL and any report legend are generated from this slice.
// Order matters; bins are contiguous and ascending.
var VolumeBins = []VolumeBin{
	{Label: "mini", Lower: 0, Upper: 50},
	{Label: "small", Lower: 50, Upper: 150},
	{Label: "medium", Lower: 150, Upper: 350},
	{Label: "large", Lower: 350, Upper: 600},
	{Label: "extra_large", Lower: 600, Upper: 900},
	{Label: "extreme", Lower: 900, Upper: 200000},
}

// BinLabelFor returns the label of the bin containing volume, or "" when the
// volume falls outside every bin.
func BinLabelFor(volume int) string {
	for _, b := range VolumeBins {
		if volume > b.Lower && volume <= b.Upper {
			return b.Label
		}
	}
	return ""
}
