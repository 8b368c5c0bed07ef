package views

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatYear returns the release year of a YYYY-MM-DD date, or "TBA"
func FormatYear(releaseDate string) string {
	if releaseDate == "" {
		return "TBA"
	}
	t, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return "TBA"
	}
	return fmt.Sprintf("%d", t.Year())
}

// FormatRuntime renders minutes as "2h 58m", or "Unknown" when zero
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatRevenue renders dollars with thousands separators, or
// "Revenue unknown" when zero
func FormatRevenue(revenue int64) string {
	if revenue == 0 {
		return "Revenue unknown"
	}
	return printer.Sprintf("$%d", revenue)
}
