package dashboard

import "strings"

const fallbackName = "Utilisateur"

// Greeting builds the welcome line from the user's first name.
func Greeting(prenom *string) string {
	name := fallbackName
	if prenom != nil && strings.TrimSpace(*prenom) != "" {
		name = strings.TrimSpace(*prenom)
	}
	return "Bonjour, " + name
}
