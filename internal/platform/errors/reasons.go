package errors

import (
	"bytes"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is used when no supported locale matches.
const BaseLocale = "en-US"

var reasonCatalogs = map[language.Tag]map[Code]string{
	language.AmericanEnglish: {
		CodeInsufficientComputing: "Not enough computing available: need {{.Required}}, have {{.Available}}",
		CodeInsufficientFunding:   "Not enough funding: need {{.Required}}, have {{.Available}}",
		CodeInsufficientInfluence: "Not enough {{.Faction}} influence: need {{.Required}}, have {{.Available}}",
		CodeMissingDataAccess:     "Missing data access: {{.Access}}",
		CodeInsufficientData:      "Not enough {{.Type}} data of sufficient quality",
		CodeInvalidAmount:         "Amount must be greater than zero",
		CodeInvalidTarget:         "An allocation target is required",
		CodeNothingAllocated:      "Nothing is allocated to {{.Target}}",
		CodeResearchUnknown:       "Unknown research project {{.ID}}",
		CodeResearchLocked:        "Research {{.ID}} requires {{.Missing}}",
		CodeResearchNotAvailable:  "Research {{.ID}} is already active or completed",
		CodeResearchNotCompleted:  "Research {{.ID}} must be completed before it can be deployed",
		CodeNoDeploymentSlots:     "All {{.Slots}} deployment slots are in use",
		CodeDeploymentNotFound:    "Deployment {{.ID}} is not active",
		CodeEventNotFound:         "Event {{.ID}} is not pending",
		CodeChoiceNotFound:        "Event {{.ID}} has no choice {{.Choice}}",
		CodeSaveNameEmpty:         "A save slot name is required",
		CodeSaveNotFound:          "No save named {{.Name}}",
		CodeSaveCorrupt:           "Save {{.Name}} could not be read",
		CodeStorageUnavailable:    "Save storage is unavailable",
		CodeStorageNotConfigured:  "Saving is not configured",
	},
	language.BrazilianPortuguese: {
		CodeInsufficientComputing: "Computação insuficiente: necessário {{.Required}}, disponível {{.Available}}",
		CodeInsufficientFunding:   "Fundos insuficientes: necessário {{.Required}}, disponível {{.Available}}",
		CodeInsufficientInfluence: "Influência {{.Faction}} insuficiente: necessário {{.Required}}, disponível {{.Available}}",
		CodeMissingDataAccess:     "Acesso a dados ausente: {{.Access}}",
		CodeInsufficientData:      "Dados {{.Type}} insuficientes ou de baixa qualidade",
		CodeInvalidAmount:         "A quantidade deve ser maior que zero",
		CodeInvalidTarget:         "É necessário informar o destino da alocação",
		CodeNothingAllocated:      "Nada está alocado para {{.Target}}",
		CodeResearchUnknown:       "Pesquisa desconhecida {{.ID}}",
		CodeResearchLocked:        "A pesquisa {{.ID}} requer {{.Missing}}",
		CodeResearchNotAvailable:  "A pesquisa {{.ID}} já está ativa ou concluída",
		CodeResearchNotCompleted:  "A pesquisa {{.ID}} precisa ser concluída antes de ser implantada",
		CodeNoDeploymentSlots:     "Todos os {{.Slots}} espaços de implantação estão em uso",
		CodeSaveNotFound:          "Nenhum jogo salvo chamado {{.Name}}",
	},
}

var (
	matcher = language.NewMatcher([]language.Tag{
		language.AmericanEnglish,
		language.BrazilianPortuguese,
	})

	templatesMu sync.Mutex
	templates   = map[string]*template.Template{}
)

// Reason renders the player-facing message for code in the closest supported
// locale, falling back to English and then to the code itself.
func Reason(locale string, code Code, metadata map[string]string) string {
	tag := resolveLocale(locale)
	msg, ok := reasonCatalogs[tag][code]
	if !ok {
		msg, ok = reasonCatalogs[language.AmericanEnglish][code]
	}
	if !ok {
		return string(code)
	}
	tmpl, err := compiled(tag.String()+"/"+string(code), msg)
	if err != nil {
		return msg
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return msg
	}
	return buf.String()
}

func resolveLocale(locale string) language.Tag {
	if locale == "" {
		locale = BaseLocale
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return language.AmericanEnglish
	}
	_, idx, _ := matcher.Match(desired...)
	switch idx {
	case 1:
		return language.BrazilianPortuguese
	default:
		return language.AmericanEnglish
	}
}

func compiled(key, msg string) (*template.Template, error) {
	templatesMu.Lock()
	defer templatesMu.Unlock()
	if tmpl, ok := templates[key]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New(key).Option("missingkey=zero").Parse(msg)
	if err != nil {
		return nil, err
	}
	templates[key] = tmpl
	return tmpl, nil
}
