package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "orders": [
    {"OrderCode": "SO1", "CustomerCode": "KH001", "Brand": "FSHOP", "DocDate": "2024-03-15T00:00:00Z"}
  ],
  "sale_lines": [
    {"ID": "0b812a48-5c43-4b3f-9e1d-2f4a6c8d0e12", "OrderCode": "SO1", "ItemCode": "A", "Quantity": "10", "Revenue": "1000"},
    {"ID": "1c923b59-6d54-4c4f-8f2e-3a5b7d9e1f23", "OrderCode": "SO2", "ItemCode": "B", "Quantity": "1", "Revenue": "100"}
  ],
  "movements": [
    {"ID": "2da34c6a-7e65-4d5a-9a3f-4b6c8eaf2a34", "OrderCode": "SO1", "ItemCode": "A", "Quantity": "-10", "DocCode": "PX001"},
    {"ID": "3eb45d7b-8f76-4e6b-8b4a-5c7d9fba3b45", "OrderCode": "RT1", "OriginOrderCode": "SO1", "ItemCode": "A", "Quantity": "2", "DocCode": "PN001"}
  ],
  "products": {
    "A": {"MaterialCode": "MAT-A", "TracksLot": true, "Unit": "PCS"}
  },
  "departments": {
    "BR1": {"DefaultWarehouse": "WH-DEF", "DepartmentCode": "P01", "Channel": "RETAIL"}
  },
  "payment_sources": [
    {"OrderCode": "SO1", "Kind": "VOUCHER", "Amount": "50"}
  ],
  "order_fees": [
    {"OrderCode": "SO1", "PlatformVoucher": "40"}
  ]
}`

func loadSample(t *testing.T) *Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0644))

	snap, err := Load(path)
	require.NoError(t, err)
	return NewSource(snap)
}

func TestSnapshotSource(t *testing.T) {
	ctx := context.Background()
	source := loadSample(t)

	t.Run("sale lines are filtered per order", func(t *testing.T) {
		lines, err := source.SaleLines(ctx, "SO1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "A", lines[0].ItemCode)
	})

	t.Run("movements include return documents via origin order", func(t *testing.T) {
		movements, err := source.Movements(ctx, "SO1")
		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, "PN001", movements[1].DocCode)
	})

	t.Run("product and department lookups", func(t *testing.T) {
		info, ok, err := source.Product(ctx, "A")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "MAT-A", info.MaterialCode)

		_, ok, err = source.Product(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, ok)

		dept, ok, err := source.Department(ctx, "BR1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "P01", dept.DepartmentCode)
	})

	t.Run("payment sources and order fee", func(t *testing.T) {
		sources, err := source.PaymentSources(ctx, "SO1")
		require.NoError(t, err)
		require.Len(t, sources, 1)

		fee, err := source.OrderFee(ctx, "SO1")
		require.NoError(t, err)
		require.NotNil(t, fee)
		assert.True(t, fee.PlatformVoucher.Equal(decimal.NewFromInt(40)))

		fee, err = source.OrderFee(ctx, "SO2")
		require.NoError(t, err)
		assert.Nil(t, fee)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
