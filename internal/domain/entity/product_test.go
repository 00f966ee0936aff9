package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock, min int
		want       string
	}{
		{-2, 5, entity.StockStatusOutOfStock},
		{0, 5, entity.StockStatusOutOfStock},
		{1, 5, entity.StockStatusLowStock},
		{5, 5, entity.StockStatusLowStock},
		{6, 5, entity.StockStatusInStock},
		{1, 0, entity.StockStatusInStock},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, entity.StockStatus(c.stock, c.min), "stock=%d min=%d", c.stock, c.min)
	}
}

func TestProduct_StockStatus(t *testing.T) {
	p := &entity.Product{Stock: 2, MinStock: 3}
	assert.Equal(t, entity.StockStatusLowStock, p.StockStatus())
}

func TestUserRoles(t *testing.T) {
	assert.True(t, entity.ValidRole(entity.RoleTechnician))
	assert.False(t, entity.ValidRole("root"))
	u := &entity.User{DealerID: "d1", Role: entity.RoleCashier}
	assert.True(t, u.IsDealerStaff())
	u.Role = entity.RoleCustomer
	assert.False(t, u.IsDealerStaff())
}
