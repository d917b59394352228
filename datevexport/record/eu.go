package record

// euDestinationCountries holds the ISO codes of EU member states. Deliveries
// into this set fill the record's EU country and VAT id field.
var euDestinationCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "CY": {}, "CZ": {}, "DE": {}, "DK": {},
	"EE": {}, "ES": {}, "FI": {}, "FR": {}, "GR": {}, "HR": {}, "HU": {},
	"IE": {}, "IT": {}, "LT": {}, "LU": {}, "LV": {}, "MT": {}, "NL": {},
	"PL": {}, "PT": {}, "RO": {}, "SE": {}, "SI": {}, "SK": {},
}

// intraCommunityFromGermany holds the EU member states excluding Germany.
// Deliveries from Germany into this set are intra-Community supplies and fill
// the record's EU tax rate field.
var intraCommunityFromGermany = func() map[string]struct{} {
	countries := make(map[string]struct{}, len(euDestinationCountries)-1)

	for iso := range euDestinationCountries {
		if iso == "DE" {
			continue
		}

		countries[iso] = struct{}{}
	}

	return countries
}()

// IsEUDestination reports whether the ISO country code names an EU member state.
func IsEUDestination(countryISO string) bool {
	_, ok := euDestinationCountries[countryISO]

	return ok
}

// IsIntraCommunityFromGermany reports whether a delivery from Germany into
// the given country is an intra-Community supply.
func IsIntraCommunityFromGermany(countryISO string) bool {
	_, ok := intraCommunityFromGermany[countryISO]

	return ok
}
