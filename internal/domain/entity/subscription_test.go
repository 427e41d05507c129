package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

func trialSub(trialEnd time.Time) *entity.CompanySubscription {
	return &entity.CompanySubscription{
		ID:          "sub-1",
		CompanyID:   "comp-1",
		PlanID:      "plan-trial",
		Status:      entity.StatusTrial,
		TrialEndsAt: &trialEnd,
	}
}

func TestTrialExpired(t *testing.T) {
	now := time.Now()

	t.Run("trial vencido", func(t *testing.T) {
		s := trialSub(now.Add(-time.Hour))
		assert.True(t, s.TrialExpired(now))
	})

	t.Run("trial vigente", func(t *testing.T) {
		s := trialSub(now.Add(time.Hour))
		assert.False(t, s.TrialExpired(now))
	})

	t.Run("status active ignora trial_ends_at", func(t *testing.T) {
		s := trialSub(now.Add(-time.Hour))
		s.Status = entity.StatusActive
		assert.False(t, s.TrialExpired(now))
	})
}

func TestDemoteToReadonly_Idempotente(t *testing.T) {
	now := time.Now()
	s := trialSub(now.Add(-24 * time.Hour))

	assert.True(t, s.DemoteToReadonly(now), "primeiro sweep deve rebaixar")
	assert.Equal(t, entity.StatusReadonly, s.Status)

	// Segundo sweep não altera nada: já não é trial.
	assert.False(t, s.DemoteToReadonly(now))
	assert.Equal(t, entity.StatusReadonly, s.Status)
}

func TestDemoteToReadonly_TrialVigenteNaoRebaixa(t *testing.T) {
	now := time.Now()
	s := trialSub(now.Add(time.Hour))

	assert.False(t, s.DemoteToReadonly(now))
	assert.Equal(t, entity.StatusTrial, s.Status)
}

func TestActivate_DefinePeriodo(t *testing.T) {
	now := time.Now()
	s := trialSub(now.Add(-time.Hour))
	start := now
	end := now.AddDate(0, 1, 0)

	s.Activate(start, end)

	assert.Equal(t, entity.StatusActive, s.Status)
	assert.Equal(t, start, *s.CurrentPeriodStart)
	assert.Equal(t, end, *s.CurrentPeriodEnd)
}

func TestApplyProviderStatus(t *testing.T) {
	cases := []struct {
		provider string
		want     entity.SubscriptionStatus
	}{
		{"ACTIVE", entity.StatusActive},
		{"INACTIVE", entity.StatusCancelled},
		{"EXPIRED", entity.StatusCancelled},
		{"QUALQUER_OUTRO", entity.StatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			s := trialSub(time.Now())
			s.ApplyProviderStatus(tc.provider)
			assert.Equal(t, tc.want, s.Status)
		})
	}
}

func TestSubscriptionStatus_Valid(t *testing.T) {
	assert.True(t, entity.StatusPastDue.Valid())
	assert.True(t, entity.StatusReadonly.Valid())
	assert.False(t, entity.SubscriptionStatus("banana").Valid())
}
