package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchSerialResolver_Resolve(t *testing.T) {
	resolver := BatchSerialResolver{}

	t.Run("lot tracking takes the value", func(t *testing.T) {
		lot, serial := resolver.Resolve("LOT42", true, false)
		assert.Equal(t, "LOT42", lot)
		assert.Empty(t, serial)
	})

	t.Run("lot wins when both flags are set", func(t *testing.T) {
		lot, serial := resolver.Resolve("LOT42", true, true)
		assert.Equal(t, "LOT42", lot)
		assert.Empty(t, serial)
	})

	t.Run("serial tracking takes the value", func(t *testing.T) {
		lot, serial := resolver.Resolve("SN-001", false, true)
		assert.Empty(t, lot)
		assert.Equal(t, "SN-001", serial)
	})

	t.Run("untracked product yields neither", func(t *testing.T) {
		lot, serial := resolver.Resolve("SN-001", false, false)
		assert.Empty(t, lot)
		assert.Empty(t, serial)
	})

	t.Run("empty source yields neither", func(t *testing.T) {
		lot, serial := resolver.Resolve("", true, true)
		assert.Empty(t, lot)
		assert.Empty(t, serial)
	})
}
