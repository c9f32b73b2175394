package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotalIsExact(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Price: decimal.NewFromFloat(0.10), Count: 3},
		{ProductID: 2, Price: decimal.NewFromFloat(19.99), Count: 2},
	}}

	// 0.30 + 39.98, no float drift.
	assert.Equal(t, "40.28", cart.Total().StringFixed(2))
}

func TestCartFindAndRemoveKeepOrder(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1}, {ProductID: 2}, {ProductID: 3},
	}}

	assert.NotNil(t, cart.Find(2))
	assert.Nil(t, cart.Find(9))

	cart.Remove(2)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 1, cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[1].ProductID)

	cart.Remove(9)
	assert.Len(t, cart.Items, 2)
}
