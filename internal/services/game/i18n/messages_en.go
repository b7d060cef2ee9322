package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	message.SetString(lang, ReportTurnKey, "Turn %d: %s-%s-%s, Q%d")
	message.SetString(lang, ReportFundingKey, "Funding: %.0f (income %.0f, expenses %.0f)")
	message.SetString(lang, ReportComputingKey, "Computing: %.1f of %.0f, %.1f allocated")
	message.SetString(lang, ReportResearchKey, "Research: %d active, %d completed")
	message.SetString(lang, ReportDeploymentsKey, "Deployments: %d of %d slots")
	message.SetString(lang, ReportEventsKey, "Pending events: %d")
	message.SetString(lang, ReportCompressionKey, "Time compression: %.2fx, %.0f days per turn")
}
