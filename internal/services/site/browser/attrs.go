package browser

import (
	"strconv"
	"strings"
	"time"
)

// FadeDuration matches the opacity transition of .splash and .content in
// site.css. The overlay is removed once it has faded out.
const FadeDuration = 300 * time.Millisecond

// ParseSplash reads the millisecond data attributes of the splash overlay.
// Missing or malformed values yield zero, which the coordinator replaces
// with its defaults. A zero safety timeout stays disabled.
func ParseSplash(minimumMS, debounceMS, safetyMS string) SplashConfig {
	return SplashConfig{
		Minimum:        millis(minimumMS),
		RevealDebounce: millis(debounceMS),
		SafetyTimeout:  millis(safetyMS),
	}
}

func millis(raw string) time.Duration {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}

// Percent formats a splash percentage for display.
func Percent(percent int) string {
	return strconv.Itoa(percent) + "%"
}

// MarkerTransform is the CSS transform placing the scroll marker at offset.
func MarkerTransform(offset float64) string {
	return "translateX(" + strconv.FormatFloat(offset, 'f', 2, 64) + "px)"
}

// FillWidth is the CSS width of the scroll fill at fraction.
func FillWidth(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 2, 64) + "%"
}
