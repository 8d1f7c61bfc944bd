package invoicing

import "strings"

// countryIDs maps ISO 3166-1 alpha-2 codes to the remote system's
// country identifiers. Only the markets the host ships to are listed;
// unknown codes resolve to 0 and the field is omitted from payloads.
var countryIDs = map[string]int64{
	"PT": 1,
	"ES": 41,
	"FR": 61,
	"DE": 70,
	"GB": 74,
	"IT": 88,
	"NL": 121,
	"BE": 21,
	"LU": 103,
	"BR": 27,
}

// CountryID resolves an ISO country code to the remote country id
func CountryID(code string) int64 {
	return countryIDs[strings.ToUpper(strings.TrimSpace(code))]
}

// NormalizePostalCode rewrites a Portuguese postal code into the
// CCCC-CCC shape the tax authority requires. Codes for other countries
// pass through untouched, so callers gate on the country code.
func NormalizePostalCode(zip string) string {
	var digits strings.Builder
	for _, ch := range zip {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}

	d := digits.String()
	switch {
	case len(d) >= 7:
		return d[:4] + "-" + d[4:7]
	case len(d) >= 4:
		suffix := d[4:]
		for len(suffix) < 3 {
			suffix += "0"
		}
		return d[:4] + "-" + suffix
	default:
		return zip
	}
}
