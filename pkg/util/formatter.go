package util

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-cell/internal/consts"
)

func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatScientific is used for quantities that span many decades (diffusivity).
func FormatScientific(value float64, unit string) string {
	return fmt.Sprintf("%10.4e %s", value, unit)
}

func FormatTemperature(kelvin float64) string {
	return fmt.Sprintf("%7.2f K (%6.2f C)", kelvin, kelvin-consts.KELVIN)
}
