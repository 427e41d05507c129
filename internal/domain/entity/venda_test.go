package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

func TestRequestExclusion(t *testing.T) {
	now := time.Now()
	v := &entity.Venda{ID: "v-1"}

	require.True(t, v.RequestExclusion("user-1", "venda duplicada", now))
	assert.Equal(t, entity.ExclusionPending, v.ExclusionStatus)
	assert.True(t, v.ExclusionRequested)
	assert.Equal(t, "user-1", v.ExclusionRequestedBy)
	assert.Equal(t, "venda duplicada", v.ExclusionReason)

	// Nova solicitação com uma pendente deve ser recusada.
	assert.False(t, v.RequestExclusion("user-2", "outro motivo", now))
	assert.Equal(t, "user-1", v.ExclusionRequestedBy, "solicitação original deve permanecer")
}

func TestRequestExclusion_AposRejeicaoPermiteNova(t *testing.T) {
	now := time.Now()
	v := &entity.Venda{ID: "v-1"}

	require.True(t, v.RequestExclusion("user-1", "motivo", now))
	require.True(t, v.RejectExclusion("admin-1", "sem justificativa suficiente", now))

	// Rejeitada não é pendente: nova solicitação é permitida.
	assert.True(t, v.RequestExclusion("user-1", "motivo melhor", now))
	assert.Equal(t, entity.ExclusionPending, v.ExclusionStatus)
	assert.Empty(t, v.ExclusionReviewNotes, "campos de revisão devem ser limpos na nova solicitação")
}

func TestApproveExclusion_SoftDeleteDaVenda(t *testing.T) {
	now := time.Now()
	v := &entity.Venda{ID: "v-1"}

	// Sem solicitação pendente a aprovação falha.
	assert.False(t, v.ApproveExclusion("admin-1", now))
	assert.Nil(t, v.DeletedAt)

	require.True(t, v.RequestExclusion("user-1", "erro de digitação", now))
	require.True(t, v.ApproveExclusion("admin-1", now))

	assert.Equal(t, entity.ExclusionApproved, v.ExclusionStatus)
	assert.Equal(t, "admin-1", v.ExclusionReviewedBy)
	require.NotNil(t, v.DeletedAt)
	assert.Equal(t, now, *v.DeletedAt)
}

func TestRejectExclusion_MantemVenda(t *testing.T) {
	now := time.Now()
	v := &entity.Venda{ID: "v-1"}

	require.True(t, v.RequestExclusion("user-1", "motivo", now))
	require.True(t, v.RejectExclusion("admin-1", "venda legítima", now))

	assert.Equal(t, entity.ExclusionRejected, v.ExclusionStatus)
	assert.Equal(t, "venda legítima", v.ExclusionReviewNotes)
	assert.Nil(t, v.DeletedAt, "rejeição não pode deletar a venda")
}
