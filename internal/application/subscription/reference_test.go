package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsub "github.com/caixapro/pdv-api/internal/application/subscription"
)

func TestBuildUpgradeReference(t *testing.T) {
	ref := appsub.BuildUpgradeReference("3f2b1c9a-0d4e-4a77-9c1d-abc123456789", "plan-inicial", "monthly")
	assert.Equal(t, "upgrade_company_3f2b1c9a-0d4e-4a77-9c1d-abc123456789_plan_plan-inicial_period_monthly", ref)
}

func TestParseUpgradeReference(t *testing.T) {
	parsed, ok := appsub.ParseUpgradeReference("upgrade_company_abc-123_plan_plan-pro_period_yearly")
	require.True(t, ok)
	assert.Equal(t, "abc-123", parsed.CompanyID)
	assert.Equal(t, "plan-pro", parsed.PendingPlanID)
	assert.Equal(t, "yearly", parsed.BillingPeriod)

	for _, ref := range []string{
		"",
		"company_abc-123",
		"upgrade_company_abc-123",
		"pedido_999",
	} {
		_, ok := appsub.ParseUpgradeReference(ref)
		assert.False(t, ok, "referência %q não deveria parsear", ref)
	}
}

func TestExtractCompanyID(t *testing.T) {
	// O webhook usa só o trecho company_<id>, presente tanto na referência de
	// upgrade quanto na de cobrança avulsa.
	id, ok := appsub.ExtractCompanyID("upgrade_company_3f2b1c9a-0d4e_plan_x_period_monthly")
	require.True(t, ok)
	assert.Equal(t, "3f2b1c9a-0d4e", id)

	id, ok = appsub.ExtractCompanyID("company_42")
	require.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = appsub.ExtractCompanyID("pedido_999")
	assert.False(t, ok)
}
