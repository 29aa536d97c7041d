package analysts

import "strings"

// sectorKeywords maps well-known subject names to sectors for the CLI
// when no sector is given.
var sectorKeywords = map[string]string{
	// Energy
	"bp": "Energy", "shell": "Energy", "exxon": "Energy",
	"chevron": "Energy", "conocophillips": "Energy",

	// Technology
	"microsoft": "Technology", "apple": "Technology", "google": "Technology",
	"amazon": "Technology", "meta": "Technology", "facebook": "Technology",

	// Consumer Goods
	"coca-cola": "Consumer Goods", "pepsi": "Consumer Goods",
	"unilever": "Consumer Goods", "procter": "Consumer Goods",
	"nike": "Consumer Goods", "adidas": "Consumer Goods",

	// Automotive
	"tesla": "Automotive", "volkswagen": "Automotive", "ford": "Automotive",
	"toyota": "Automotive",

	// Financial
	"jpmorgan": "Financial Services", "goldman": "Financial Services",
	"bank of america": "Financial Services", "wells fargo": "Financial Services",

	// Healthcare
	"pfizer": "Healthcare", "johnson": "Healthcare", "moderna": "Healthcare",
}

// DetectSector guesses a sector from the subject name, defaulting to
// General.
func DetectSector(subject string) string {
	lower := strings.ToLower(subject)
	for key, sector := range sectorKeywords {
		if strings.Contains(lower, key) {
			return sector
		}
	}
	return "General"
}
