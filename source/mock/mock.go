// Package mock provides a test double for the source.Adapter interface.
//
// MockAdapter allows custom behavior injection via function fields and
// records MarkProcessed calls so tests can assert on the label workflow
// without shelling out to real source CLIs.
package mock

import (
	"context"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/source"
)

// MockAdapter is a test double for source.Adapter and
// source.ProcessedMarker.
type MockAdapter struct {
	// FamilyFunc is called by Family if set.
	// If nil, reports the mail family.
	FamilyFunc func() core.SourceFamily

	// SearchFunc is called by Search if set.
	// If nil, returns no items.
	SearchFunc func(ctx context.Context, query string, limit int) ([]*source.Item, error)

	// FetchFunc is called by Fetch if set.
	// If nil, returns a minimal item carrying only the id.
	FetchFunc func(ctx context.Context, id string) (*source.Item, error)

	// MarkProcessedFunc is called by MarkProcessed if set.
	// If nil, the id is recorded and the call succeeds.
	MarkProcessedFunc func(ctx context.Context, id string) error

	processed []string
	callCount int
}

var _ source.Adapter = (*MockAdapter)(nil)
var _ source.ProcessedMarker = (*MockAdapter)(nil)

// NewMockAdapter creates a mock adapter with default behavior.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Family reports the configured source family.
func (m *MockAdapter) Family() core.SourceFamily {
	m.callCount++

	if m.FamilyFunc != nil {
		return m.FamilyFunc()
	}
	return core.SourceMail
}

// Search returns the configured items.
func (m *MockAdapter) Search(ctx context.Context, query string, limit int) ([]*source.Item, error) {
	m.callCount++

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return nil, nil
}

// Fetch returns the configured item.
func (m *MockAdapter) Fetch(ctx context.Context, id string) (*source.Item, error) {
	m.callCount++

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, id)
	}
	return &source.Item{ID: id}, nil
}

// MarkProcessed records the id for later assertions.
func (m *MockAdapter) MarkProcessed(ctx context.Context, id string) error {
	m.callCount++

	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, id)
	}
	m.processed = append(m.processed, id)
	return nil
}

// ProcessedIDs returns the ids passed to MarkProcessed, in call order.
func (m *MockAdapter) ProcessedIDs() []string {
	return m.processed
}

// CallCount returns the number of times any method was called.
func (m *MockAdapter) CallCount() int {
	return m.callCount
}

// Reset clears recorded calls and injected behavior.
func (m *MockAdapter) Reset() {
	m.callCount = 0
	m.processed = nil
	m.FamilyFunc = nil
	m.SearchFunc = nil
	m.FetchFunc = nil
	m.MarkProcessedFunc = nil
}
