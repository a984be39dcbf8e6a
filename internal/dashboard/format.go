package dashboard

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

var months = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

const invalidDate = "Date invalide"

// FormatLongDate renders t the way the welcome header shows it, e.g.
// "Mercredi 15 octobre 2026 à 08:05".
func FormatLongDate(t time.Time) string {
	s := fmt.Sprintf("%s %d %s %d à %02d:%02d",
		weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
	return capitalize(s)
}

// FormatShortDate renders t as dd/mm/yyyy. The zero time is "Date invalide".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return invalidDate
	}
	return t.Format("02/01/2006")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	for i := range s {
		if i > 0 {
			return strings.ToUpper(s[:i]) + s[i:]
		}
	}
	return strings.ToUpper(s)
}
