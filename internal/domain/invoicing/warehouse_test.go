package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarehouseResolver_Resolve(t *testing.T) {
	t.Run("movement warehouse wins", func(t *testing.T) {
		r := NewWarehouseResolver(nil)
		assert.Equal(t, "WH1", r.Resolve("WH1", "WH2", "WH3", ClassRetail))
	})

	t.Run("sale-recorded value is second", func(t *testing.T) {
		r := NewWarehouseResolver(nil)
		assert.Equal(t, "WH2", r.Resolve("", "WH2", "WH3", ClassRetail))
	})

	t.Run("department default is last", func(t *testing.T) {
		r := NewWarehouseResolver(nil)
		assert.Equal(t, "WH3", r.Resolve("", "", "WH3", ClassRetail))
	})

	t.Run("exchange orders skip the movement warehouse", func(t *testing.T) {
		r := NewWarehouseResolver(nil)
		assert.Equal(t, "WH2", r.Resolve("WH1", "WH2", "WH3", ClassExchange))
	})

	t.Run("transfer orders skip the movement warehouse", func(t *testing.T) {
		r := NewWarehouseResolver(nil)
		assert.Equal(t, "WH2", r.Resolve("WH1", "WH2", "WH3", ClassTransfer))
	})

	t.Run("remap substitutes the chosen code", func(t *testing.T) {
		r := NewWarehouseResolver(map[string]string{"WH1": "K010"})
		assert.Equal(t, "K010", r.Resolve("WH1", "WH2", "WH3", ClassRetail))
	})

	t.Run("remap miss keeps the chosen code", func(t *testing.T) {
		r := NewWarehouseResolver(map[string]string{"OLD": "NEW"})
		assert.Equal(t, "WH1", r.Resolve("WH1", "", "", ClassRetail))
	})
}
