package event

import (
	"errors"
	"strings"
	"time"
)

// Delimiter separates the record fields in the persisted encoding.
const Delimiter = ";"

// startLayout tolerates single- or double-digit month, day and hour
// because the form writes dates without zero-padding. Minutes are two
// digits on a 24-hour clock.
const startLayout = "2006-1-2 15:04"

// ErrDecode indicates a stored member that cannot be split into a record.
var ErrDecode = errors.New("malformed event record")

// Record is one user-entered event.
type Record struct {
	Name string `json:"name"`
	Date string `json:"date"` // year-month-day, month and day not zero-padded
	Time string `json:"time"` // HH:mm, 24-hour
}

// Encode joins the fields with the delimiter in fixed order. A field that
// itself contains the delimiter corrupts the round-trip; there is no
// escaping scheme.
func (r Record) Encode() string {
	return strings.Join([]string{r.Name, r.Date, r.Time}, Delimiter)
}

// Decode splits an encoded member back into a record. Fewer than three
// parts is an error; extra parts are ignored.
func Decode(text string) (Record, error) {
	parts := strings.Split(text, Delimiter)
	if len(parts) < 3 {
		return Record{}, ErrDecode
	}
	return Record{Name: parts[0], Date: parts[1], Time: parts[2]}, nil
}

// StartTime parses the record's date and time in the given location. No
// zone is stored with the record, so the same text parses to a different
// instant if the device zone changes between write and read.
func (r Record) StartTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(startLayout, r.Date+" "+r.Time, loc)
}
