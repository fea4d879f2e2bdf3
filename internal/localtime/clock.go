package localtime

import (
	"log"
	"time"
)

// Layout is the timestamp format stored in the database.
const Layout = "2006-01-02 15:04:05"

// Clock produces site-local timestamps for log and record fields.
type Clock struct {
	loc *time.Location
}

// New loads the given IANA timezone. An unknown zone falls back to UTC.
func New(timezone string) *Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to UTC: %v", timezone, err)
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// Now returns the current site-local time formatted with Layout.
func (c *Clock) Now() string {
	return time.Now().In(c.loc).Format(Layout)
}
