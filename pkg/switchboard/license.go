package switchboard

import "strings"

const (
	LicenseNonCC        = "non-CC"
	LicenseNotSpecified = "not specified"
)

// allowedLicenses is scanned in order; see NormalizeLicense.
var allowedLicenses = []string{
	"CC BY",
	"CC BY-ND",
	"CC BY-NC",
	"CC BY-NC-SA",
	"CC BY-NC-ND",
	"CC BY-IGO",
	"CC BY-not specified",
	"CC BY-other",
	"CC0",
	LicenseNonCC,
	LicenseNotSpecified,
}

// NormalizeLicense maps a journal licence short name onto the Switchboard
// vocabulary. Every allowed entry that prefixes the short name replaces the
// previous match, so the last match in list order wins ("CC BY-NC-SA 4.0"
// yields "CC BY-NC-SA", not "CC BY"). "Copyright" is always non-CC.
func NormalizeLicense(shortName string) string {
	license := LicenseNotSpecified
	for _, candidate := range allowedLicenses {
		if strings.HasPrefix(shortName, candidate) {
			license = candidate
		}
	}

	if shortName == "Copyright" {
		license = LicenseNonCC
	}
	return license
}
