package images

import (
	"fmt"
	"math"
	"sort"
)

// AspectRatio represents a camera aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Defines standard and common aspect ratios for surveillance cameras.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
)

// ResolutionType identifies a camera stream resolution by its short label.
// The labels double as CLI tokens, so they stay lowercase and space-free.
type ResolutionType string

// Defines the unique type for each supported overlay resolution.
const (
	ResolutionTypeQVGA  ResolutionType = "qvga"
	ResolutionTypeVGA   ResolutionType = "vga"
	ResolutionType360p  ResolutionType = "360p"
	ResolutionType480p  ResolutionType = "480p"
	ResolutionType540p  ResolutionType = "540p"
	ResolutionType720p  ResolutionType = "720p"
	ResolutionTypeSXGA  ResolutionType = "sxga"
	ResolutionType1080p ResolutionType = "1080p"
	ResolutionType1440p ResolutionType = "1440p"
	ResolutionType4K    ResolutionType = "4k"
)

// ResolutionPixels describes the exact dimensions of a resolution.
type ResolutionPixels struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resolution describes the complete set of attributes for a camera stream
// resolution. Overlay buffers are sized to these dimensions so they can be
// blended onto frames without rescaling.
type Resolution struct {
	Name        ResolutionType   `json:"name"`
	AspectRatio AspectRatio      `json:"aspectRatio"`
	Pixels      ResolutionPixels `json:"pixels"`
}

// GetMegaPixels calculates the megapixel value based on the resolution's pixel dimensions.
// It returns the value rounded to two decimal places (e.g., 2.07 for 1080p).
// O(1) complexity.
func (r Resolution) GetMegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	// Round to two decimal places for standardization.
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
// O(1) complexity.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Pixels.Width, r.Pixels.Height, r.GetMegaPixels())
}

// resolutions is a private map that stores all defined resolution standards,
// keyed by their ResolutionType for efficient lookups.
var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeQVGA: {
		Name:        ResolutionTypeQVGA,
		AspectRatio: AspectRatio43,
		Pixels:      ResolutionPixels{Width: 320, Height: 240},
	},
	ResolutionTypeVGA: {
		Name:        ResolutionTypeVGA,
		AspectRatio: AspectRatio43,
		Pixels:      ResolutionPixels{Width: 640, Height: 480},
	},
	ResolutionType360p: {
		Name:        ResolutionType360p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 640, Height: 360},
	},
	ResolutionType480p: {
		Name:        ResolutionType480p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 854, Height: 480},
	},
	ResolutionType540p: {
		Name:        ResolutionType540p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 960, Height: 540},
	},
	ResolutionType720p: {
		Name:        ResolutionType720p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 1280, Height: 720},
	},
	ResolutionTypeSXGA: {
		Name:        ResolutionTypeSXGA,
		AspectRatio: AspectRatio54,
		Pixels:      ResolutionPixels{Width: 1280, Height: 1024},
	},
	ResolutionType1080p: {
		Name:        ResolutionType1080p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 1920, Height: 1080},
	},
	ResolutionType1440p: {
		Name:        ResolutionType1440p,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 2560, Height: 1440},
	},
	ResolutionType4K: {
		Name:        ResolutionType4K,
		AspectRatio: AspectRatio169,
		Pixels:      ResolutionPixels{Width: 3840, Height: 2160},
	},
}

// GetAllResolutions returns a slice of all defined resolution standards.
// The order is not guaranteed.
// O(N) complexity, where N is the number of resolutions.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	return all
}

// GetSortedResolutions returns all defined resolution standards ordered from
// smallest to largest pixel count. Benchmark sweeps rely on this order being
// deterministic.
// O(N log N) complexity, where N is the number of resolutions.
func GetSortedResolutions() []Resolution {
	all := GetAllResolutions()
	sort.Slice(all, func(i, j int) bool {
		pi := all[i].Pixels.Width * all[i].Pixels.Height
		pj := all[j].Pixels.Width * all[j].Pixels.Height
		if pi != pj {
			return pi < pj
		}
		return all[i].Name < all[j].Name
	})
	return all
}

// GetResolutionByType retrieves a specific resolution by its type.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
// O(1) complexity due to map lookup.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[t]
	return res, ok
}

// GetHighestResolutionUnderDimensions retrieves the highest resolution that is under the given width and height.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
// O(N) complexity, where N is the number of resolutions.
//
// Arguments:
//   - width: The maximum possible width of the image.
//   - height: The maximum possible height of the image.
//
// Returns:
//   - Resolution: The highest resolution that is under the given width and height.
//   - bool: True if a resolution was found, otherwise false.
func GetHighestResolutionUnderDimensions(width, height int) (Resolution, bool) {
	var highest Resolution
	var found bool

	for _, res := range resolutions {
		if res.Pixels.Width <= width && res.Pixels.Height <= height {
			if !found || res.GetMegaPixels() > highest.GetMegaPixels() {
				highest = res
				found = true
			}
		}
	}
	return highest, found
}
