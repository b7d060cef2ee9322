package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, ReportTurnKey, "Turno %[1]d: %[4]s/%[3]s/%[2]s, T%[5]d")
	message.SetString(lang, ReportFundingKey, "Fundos: %.0f (receita %.0f, despesas %.0f)")
	message.SetString(lang, ReportComputingKey, "Computação: %.1f de %.0f, %.1f alocada")
	message.SetString(lang, ReportResearchKey, "Pesquisa: %d ativas, %d concluídas")
	message.SetString(lang, ReportDeploymentsKey, "Implantações: %d de %d espaços")
	message.SetString(lang, ReportEventsKey, "Eventos pendentes: %d")
	message.SetString(lang, ReportCompressionKey, "Compressão temporal: %.2fx, %.0f dias por turno")
}
