package holiday

import (
	"strings"
	"time"

	hijri "github.com/hablullah/go-hijri"
	"github.com/hebcal/hdate"
)

// HebrewConverter resolves Gregorian dates in the Hebrew calendar.
type HebrewConverter struct{}

// Convert returns the Hebrew month name (lowercase) and day of month.
func (HebrewConverter) Convert(date time.Time) (string, int, error) {
	hd := hdate.FromGregorian(date.Year(), date.Month(), date.Day())
	return strings.ToLower(hd.Month().String()), hd.Day(), nil
}

// ummAlQuraMonths maps Umm al-Qura month numbers to lowercase names.
var ummAlQuraMonths = [...]string{
	1:  "muharram",
	2:  "safar",
	3:  "rabi al-awwal",
	4:  "rabi al-thani",
	5:  "jumada al-ula",
	6:  "jumada al-akhirah",
	7:  "rajab",
	8:  "shaban",
	9:  "ramadan",
	10: "shawwal",
	11: "dhu al-qadah",
	12: "dhu al-hijjah",
}

// UmmAlQuraConverter resolves Gregorian dates in the Islamic Umm al-Qura
// calendar.
type UmmAlQuraConverter struct{}

// Convert returns the Islamic month name (lowercase) and day of month.
// Dates outside the Umm al-Qura table range return an error.
func (UmmAlQuraConverter) Convert(date time.Time) (string, int, error) {
	d, err := hijri.CreateUmmAlQuraDate(date)
	if err != nil {
		return "", 0, err
	}
	month := ""
	if d.Month >= 1 && int(d.Month) < len(ummAlQuraMonths) {
		month = ummAlQuraMonths[d.Month]
	}
	return month, int(d.Day), nil
}
