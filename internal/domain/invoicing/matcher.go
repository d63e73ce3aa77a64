package invoicing

import (
	"strings"

	"github.com/google/uuid"
)

// MatchResult is the outcome of matching one order's stock movements to its
// sale lines.
type MatchResult struct {
	// Pairs is keyed by sale-line identity.
	Pairs map[uuid.UUID]*MatchedPair
	// UnmatchedMovements are movements no sale line could absorb. They are
	// reported (never dropped) so the caller can emit inferred lines.
	UnmatchedMovements []*StockMovementRecord
}

// StockMatcher assigns stock-movement records to sale lines within one order
// using item-code keys with consumption semantics: each movement is assigned
// to at most one sale line, and each sale line absorbs at most one movement
// per direction, except under the legacy one-sale-to-many-movements fallback.
//
// Matching is deterministic: candidates are kept in input order and ties are
// broken by input sequence, never by map iteration order.
type StockMatcher struct {
	outboundPrefixes []string
	inboundPrefixes  []string
}

// StockMatcherOption configures a StockMatcher.
type StockMatcherOption func(*StockMatcher)

// WithOutboundPrefixes sets the document-code prefixes marking the stock-out
// document class.
func WithOutboundPrefixes(prefixes ...string) StockMatcherOption {
	return func(m *StockMatcher) {
		if len(prefixes) > 0 {
			m.outboundPrefixes = prefixes
		}
	}
}

// WithInboundPrefixes sets the document-code prefixes marking the stock-in
// document class.
func WithInboundPrefixes(prefixes ...string) StockMatcherOption {
	return func(m *StockMatcher) {
		if len(prefixes) > 0 {
			m.inboundPrefixes = prefixes
		}
	}
}

// NewStockMatcher creates a matcher with the default document prefixes
// ("PX" outbound, "PN" inbound).
func NewStockMatcher(opts ...StockMatcherOption) *StockMatcher {
	m := &StockMatcher{
		outboundPrefixes: []string{"PX"},
		inboundPrefixes:  []string{"PN"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsOutbound classifies a movement: outbound when its document code carries a
// stock-out prefix or its quantity is negative.
func (m *StockMatcher) IsOutbound(mov *StockMovementRecord) bool {
	doc := strings.ToUpper(strings.TrimSpace(mov.DocCode))
	for _, p := range m.outboundPrefixes {
		if strings.HasPrefix(doc, p) {
			return true
		}
	}
	for _, p := range m.inboundPrefixes {
		if strings.HasPrefix(doc, p) {
			return false
		}
	}
	return mov.Quantity.IsNegative()
}

// lineQueue is an explicit FIFO of sale-line indices for one key. Consumption
// advances per direction so a line can still take one outbound and one
// inbound movement (exchange scenarios).
type lineQueue struct {
	indices []int
}

// Match builds the match map for one order.
//
// Movements are grouped against sale lines by item code; when no sale line
// shares the movement's item code the material code (resolved via the product
// lookup when absent on the record) is tried instead. Candidate selection per
// movement: best fit by absolute quantity first, then first still-available
// line, then — when every candidate is already consumed for the movement's
// direction — the first line regardless of consumption state (legacy
// one-sale-to-many-movements compatibility). Sale lines without an item code
// are never matched.
func (m *StockMatcher) Match(lines []*SaleLine, movements []*StockMovementRecord, products ProductLookup) *MatchResult {
	result := &MatchResult{Pairs: make(map[uuid.UUID]*MatchedPair, len(lines))}

	byItem := make(map[string]*lineQueue)
	byMaterial := make(map[string]*lineQueue)
	for i, line := range lines {
		if line.ItemCode == "" {
			continue
		}
		enqueue(byItem, line.ItemCode, i)
		if products != nil {
			if info, ok := products(line.ItemCode); ok && info.MaterialCode != "" {
				enqueue(byMaterial, info.MaterialCode, i)
			}
		}
	}

	outTaken := make([]bool, len(lines))
	inTaken := make([]bool, len(lines))

	for _, mov := range movements {
		queue := byItem[mov.ItemCode]
		if queue == nil {
			material := mov.MaterialCode
			if material == "" && products != nil && mov.ItemCode != "" {
				if info, ok := products(mov.ItemCode); ok {
					material = info.MaterialCode
				}
			}
			if material != "" {
				queue = byMaterial[material]
			}
		}
		if queue == nil || len(queue.indices) == 0 {
			result.UnmatchedMovements = append(result.UnmatchedMovements, mov)
			continue
		}

		outbound := m.IsOutbound(mov)
		taken := outTaken
		if !outbound {
			taken = inTaken
		}

		idx := pickLine(lines, queue.indices, taken, mov)
		if idx < 0 {
			// Legacy fallback: every candidate is consumed for this
			// direction, attach to the first line anyway.
			idx = queue.indices[0]
		}

		line := lines[idx]
		pair := result.Pairs[line.ID]
		if pair == nil {
			pair = &MatchedPair{SaleLineID: line.ID}
			result.Pairs[line.ID] = pair
		}
		if outbound {
			pair.Outbounds = append(pair.Outbounds, mov)
			outTaken[idx] = true
		} else {
			pair.Inbounds = append(pair.Inbounds, mov)
			inTaken[idx] = true
		}
	}

	return result
}

func enqueue(queues map[string]*lineQueue, key string, idx int) {
	q := queues[key]
	if q == nil {
		q = &lineQueue{}
		queues[key] = q
	}
	q.indices = append(q.indices, idx)
}

// pickLine prefers an unconsumed line whose absolute quantity equals the
// movement's, then the first unconsumed line. Returns -1 when every candidate
// is already consumed.
func pickLine(lines []*SaleLine, indices []int, taken []bool, mov *StockMovementRecord) int {
	movQty := mov.Quantity.Abs()
	for _, idx := range indices {
		if !taken[idx] && lines[idx].Quantity.Abs().Equal(movQty) {
			return idx
		}
	}
	for _, idx := range indices {
		if !taken[idx] {
			return idx
		}
	}
	return -1
}
