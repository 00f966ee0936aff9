package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/workflow"
)

func TestFlow_SecuenciaDeOrdenDeTrabajo(t *testing.T) {
	f := workflow.New("jobcard", entity.JobCardStages...)
	assert.Equal(t, entity.JobStatusReceived, f.Initial())

	cur := f.Initial()
	var visited []string
	for !f.IsTerminal(cur) {
		next, err := f.Next(cur)
		require.NoError(t, err)
		visited = append(visited, next)
		cur = next
	}
	assert.Equal(t, entity.JobCardStages[1:], visited)
	assert.Equal(t, entity.JobStatusDelivered, cur)
}

func TestFlow_TerminalNoAvanza(t *testing.T) {
	f := workflow.New("fulfillment", entity.FulfillmentStages...)
	_, err := f.Next(entity.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrTerminalState)
}

func TestFlow_EtapaDesconocida(t *testing.T) {
	f := workflow.New("fulfillment", entity.FulfillmentStages...)
	_, err := f.Next("lost")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, -1, f.Index("lost"))
}

func TestFlow_CanTransitionRechazaSaltos(t *testing.T) {
	f := workflow.New("fulfillment", entity.FulfillmentStages...)
	assert.True(t, f.CanTransition(entity.OrderStatusPending, entity.OrderStatusConfirmed))
	assert.False(t, f.CanTransition(entity.OrderStatusPending, entity.OrderStatusShipped), "no se permite saltar etapas")
	assert.False(t, f.CanTransition(entity.OrderStatusShipped, entity.OrderStatusConfirmed), "no se permite retroceder")
}

func TestFlow_EtapaAlcanzada(t *testing.T) {
	f := workflow.New("fulfillment", entity.FulfillmentStages...)
	assert.True(t, f.Reached(entity.OrderStatusDelivered, entity.OrderStatusShipped))
	assert.True(t, f.Reached(entity.OrderStatusShipped, entity.OrderStatusShipped))
	assert.False(t, f.Reached(entity.OrderStatusConfirmed, entity.OrderStatusShipped))
}

func TestFlow_StagesDevuelveCopia(t *testing.T) {
	f := workflow.New("x", "a", "b")
	s := f.Stages()
	s[0] = "z"
	assert.Equal(t, "a", f.Initial())
}

func TestNew_PanicConEtapasDuplicadas(t *testing.T) {
	assert.Panics(t, func() { workflow.New("x", "a", "a") })
	assert.Panics(t, func() { workflow.New("x") })
}
