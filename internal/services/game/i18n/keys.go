// Package i18n registers the localized strings of the turn report.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys for the turn report.
const (
	ReportTurnKey        = "Turn %d: %s-%s-%s, Q%d"
	ReportFundingKey     = "Funding: %.0f (income %.0f, expenses %.0f)"
	ReportComputingKey   = "Computing: %.1f of %.0f, %.1f allocated"
	ReportResearchKey    = "Research: %d active, %d completed"
	ReportDeploymentsKey = "Deployments: %d of %d slots"
	ReportEventsKey      = "Pending events: %d"
	ReportCompressionKey = "Time compression: %.2fx, %.0f days per turn"
)

var matcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
})

// Printer returns a message printer for locale, falling back to American
// English.
func Printer(locale string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, locale)
	return message.NewPrinter(tag)
}
