package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Location is where an HOA is situated.
type Location struct {
	City    string `json:"city" firestore:"city" bson:"city"`
	State   string `json:"state" firestore:"state" bson:"state"`
	Zipcode string `json:"zipcode" firestore:"zipcode" bson:"zipcode"`
}

// String joins the non-empty location parts with ", ".
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Zipcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// HOA is a homeowners association. Timestamps are milliseconds since epoch.
type HOA struct {
	ID          string   `json:"id" firestore:"-" bson:"_id"`
	Name        string   `json:"name" firestore:"name" bson:"name"`
	Location    Location `json:"location" firestore:"location" bson:"location"`
	DateCreated int64    `json:"dateCreated" firestore:"dateCreated" bson:"dateCreated"`
	DateUpdated int64    `json:"dateUpdated" firestore:"dateUpdated" bson:"dateUpdated"`
}

var zipcodeRegex = regexp.MustCompile(`^\d{5}$`)

// ValidationError describes one invalid field of a submitted form.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the location fields. City and state are required and the
// zipcode must be exactly five digits.
func (l Location) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(l.City) == "" {
		errs = append(errs, ValidationError{Field: "city", Message: "City is required"})
	}
	if l.State == "" {
		errs = append(errs, ValidationError{Field: "state", Message: "State is required"})
	} else if !IsUSState(l.State) {
		errs = append(errs, ValidationError{Field: "state", Message: "Unknown state"})
	}
	if !zipcodeRegex.MatchString(l.Zipcode) {
		errs = append(errs, ValidationError{Field: "zipcode", Message: "Valid ZIP Code is required"})
	}
	return errs
}

// USStates lists the postal codes accepted for Location.State.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// IsUSState reports whether code is one of USStates.
func IsUSState(code string) bool {
	for _, s := range USStates {
		if s == code {
			return true
		}
	}
	return false
}
