package subscription

import (
	"fmt"
	"regexp"
)

// Formato da referência externa gravada nas cobranças de upgrade:
//
//	upgrade_company_<companyID>_plan_<planID>_period_<period>
//
// O webhook usa apenas o trecho company_<id> para resolver a assinatura; o
// plano pendente é devolvido no parse mas não é aplicado na confirmação do
// pagamento (comportamento herdado do sistema original — ver DESIGN.md).
var (
	refUpgradePattern = regexp.MustCompile(`^upgrade_company_([^_]+)_plan_([^_]+)_period_([a-z]+)$`)
	refCompanyPattern = regexp.MustCompile(`company_([0-9a-fA-F-]+)`)
)

// UpgradeReference referência externa de uma cobrança de upgrade.
type UpgradeReference struct {
	CompanyID     string
	PendingPlanID string
	BillingPeriod string
}

// BuildUpgradeReference monta a referência externa de uma cobrança de upgrade.
func BuildUpgradeReference(companyID, planID, period string) string {
	return fmt.Sprintf("upgrade_company_%s_plan_%s_period_%s", companyID, planID, period)
}

// ParseUpgradeReference interpreta o formato completo de upgrade.
// Devolve (nil, false) se a string não seguir o formato.
func ParseUpgradeReference(ref string) (*UpgradeReference, bool) {
	m := refUpgradePattern.FindStringSubmatch(ref)
	if m == nil {
		return nil, false
	}
	return &UpgradeReference{CompanyID: m[1], PendingPlanID: m[2], BillingPeriod: m[3]}, true
}

// ExtractCompanyID extrai o id da empresa de qualquer referência que contenha
// o padrão company_<id>. Último recurso da resolução de assinaturas no webhook.
func ExtractCompanyID(ref string) (string, bool) {
	m := refCompanyPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}
