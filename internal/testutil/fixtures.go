// internal/testutil/fixtures.go
package testutil

// Well-formed identifiers for tests. The values match the official formats
// but belong to no real company.
const (
	ValidGSTIN = "29AABCT1332L1ZU"
	ValidCIN   = "U72900KA2018PTC123456"

	// ValidCINYear is the incorporation year embedded in ValidCIN.
	ValidCINYear = 2018

	CompanyName = "Acme Solutions Private Limited"
)

// Malformed identifiers covering the common failure shapes.
var (
	BadGSTINs = []string{
		"29AABCT1332L1Z",   // 14 chars
		"29AABCT1332L1ZUX", // 16 chars
		"2XAABCT1332L1ZU",  // letter in state code
		"29AABCT1332L1AU",  // missing literal Z
		"29aabct1332l1zu",  // lower case
	}
	BadCINs = []string{
		"X72900KA2018PTC123456",  // bad listing status
		"U72900KA2018PTC12345",   // 20 chars
		"U72900KA2018PTC1234567", // 22 chars
		"U72900K12018PTC123456",  // digit in state code
		"U72900KA20X8PTC123456",  // letter in year
	}
)
