package validate

import (
	"fmt"
	"regexp"
	"time"
)

// titleRx allows letters, digits, single spaces, hyphen and apostrophe.
var titleRx = regexp.MustCompile(`^[A-Za-z0-9' -]+$`)

// ownerIdRx keeps owner identifiers conservative: the upstream gateway
// issues lowercase alphanumeric ids with hyphens or underscores.
var ownerIdRx = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

const dateLayout = "2006-01-02"

// Title validates an itinerary title:
// - 1-80 bytes
// - letters/digits/space/hyphen/apostrophe only
// Returns an error describing the first violated rule.
func Title(v string) error {
	if v == "" {
		return fmt.Errorf("title is required")
	}
	if len(v) > 80 {
		return fmt.Errorf("title exceeds 80 characters")
	}
	if !titleRx.MatchString(v) {
		return fmt.Errorf("title contains invalid characters; allowed letters, digits, space, hyphen, apostrophe")
	}
	return nil
}

// OwnerID validates the identity header forwarded by the gateway.
func OwnerID(v string) error {
	if v == "" {
		return fmt.Errorf("owner id is required")
	}
	if !ownerIdRx.MatchString(v) {
		return fmt.Errorf("owner id must match %s", ownerIdRx.String())
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Date parses a YYYY-MM-DD query parameter.
func Date(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a YYYY-MM-DD date", field)
	}
	return d, nil
}

// DateRange parses a from/to window and checks ordering.
func DateRange(fromStr, toStr string) (from, to time.Time, err error) {
	if from, err = Date("from", fromStr); err != nil {
		return
	}
	if to, err = Date("to", toStr); err != nil {
		return
	}
	if to.Before(from) {
		err = fmt.Errorf("to must not precede from")
	}
	return
}
