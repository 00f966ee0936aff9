package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestDiffCodes(t *testing.T) {
	added, removed := entity.DiffCodes(
		[]string{entity.PermPOSSell, entity.PermCatalogView},
		[]string{entity.PermCatalogView, entity.PermPOSVoid, entity.PermPOSVoid, entity.PermInventoryManage},
	)
	assert.Equal(t, []string{entity.PermInventoryManage, entity.PermPOSVoid}, added)
	assert.Equal(t, []string{entity.PermPOSSell}, removed)
}

func TestDiffCodes_SinCambios(t *testing.T) {
	added, removed := entity.DiffCodes([]string{"a", "b"}, []string{"b", "a"})
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
