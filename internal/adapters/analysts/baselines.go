package analysts

// Sector baseline risk on a 0-100 scale, following published ESG
// ratings methodology. Higher baselines mean more scrutiny: high-risk
// sectors get a lower bar for a HIGH rating.
var sectorBaselines = map[string]int{
	"Energy":             75,
	"Oil & Gas":          75,
	"Mining":             70,
	"Aviation":           70,
	"Automotive":         60,
	"Transportation":     55,
	"Consumer Goods":     50,
	"Financial Services": 50,
	"Retail":             45,
	"Telecommunications": 40,
	"Healthcare":         35,
	"Technology":         35,
	"Renewable Energy":   25,
	"General":            50,
}

// sectorBaseline returns the baseline for a sector, defaulting to 50.
func sectorBaseline(sector string) int {
	if b, ok := sectorBaselines[sector]; ok {
		return b
	}
	return 50
}
