package transform

import "fmt"

// FormatDuration renders a day count as "45 days", "4m 5d", "2 months", "1y 3m" or "2 years".
func FormatDuration(days string) string {
	n, ok := ParseInt(days)
	if !ok {
		return "N/A"
	}

	switch {
	case n < 30:
		return fmt.Sprintf("%d days", n)
	case n < 365:
		months, rest := n/30, n%30
		if rest > 0 {
			return fmt.Sprintf("%dm %dd", months, rest)
		}
		return fmt.Sprintf("%d months", months)
	default:
		years := n / 365
		months := (n % 365) / 30
		if months > 0 {
			return fmt.Sprintf("%dy %dm", years, months)
		}
		return fmt.Sprintf("%d years", years)
	}
}

// Tones used to colour statuses and efficiency values in charts.
const (
	ToneGreen  = "green"
	ToneBlue   = "blue"
	ToneOrange = "orange"
	ToneGray   = "gray"
)

func StatusTone(status string) string {
	switch status {
	case StatusExpedited:
		return ToneGreen
	case StatusStandard:
		return ToneBlue
	case StatusExtended:
		return ToneOrange
	default:
		return ToneGray
	}
}

func EfficiencyTone(efficiency int) string {
	switch {
	case efficiency >= 30:
		return ToneGreen
	case efficiency >= 15:
		return ToneBlue
	case efficiency > 0:
		return ToneOrange
	default:
		return ToneGray
	}
}
