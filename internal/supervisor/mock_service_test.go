// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package supervisor

import (
	"context"
	"errors"
	"sync"
)

// mockService is a suture.Service that counts starts and can fail a set
// number of times before running normally.
type mockService struct {
	name string

	mu         sync.Mutex
	startCount int
	failCount  int
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.mu.Lock()
	m.startCount++
	fail := m.failCount > 0
	if fail {
		m.failCount--
	}
	m.mu.Unlock()

	if fail {
		return errors.New("mock failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}

func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCount = n
}

func (m *mockService) starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCount
}
