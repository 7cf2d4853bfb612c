package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vinyl-next/internal/models"
	"github.com/vinyl-next/internal/upstream"
)

// memorySlots 内存槽位仓库，测试专用
type memorySlots struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newMemorySlots() *memorySlots {
	return &memorySlots{data: make(map[string]map[string]string)}
}

func (m *memorySlots) Get(sessionID, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.data[sessionID]
	if !ok {
		return "", false, nil
	}
	payload, ok := slots[name]
	return payload, ok, nil
}

func (m *memorySlots) Put(sessionID, name, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.data[sessionID]
	if !ok {
		slots = make(map[string]string)
		m.data[sessionID] = slots
	}
	slots[name] = payload
	return nil
}

func (m *memorySlots) Delete(sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slots, ok := m.data[sessionID]; ok {
		delete(slots, name)
	}
	return nil
}

func (m *memorySlots) Sessions() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := make([]string, 0, len(m.data))
	for sessionID := range m.data {
		sessions = append(sessions, sessionID)
	}
	return sessions, nil
}

// fakePricing 可编程的定价后端
type fakePricing struct {
	snapshots []models.ProductSnapshot
	err       error
	calls     int
}

func (f *fakePricing) Calculate(_ context.Context, _ []string) ([]models.ProductSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshots, nil
}

// fakeOrders 可编程的订单后端
type fakeOrders struct {
	result *upstream.OrderResult
	err    error
	calls  int
	last   upstream.OrderInput
}

func (f *fakeOrders) CreateOrder(_ context.Context, input upstream.OrderInput) (*upstream.OrderResult, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errNetwork = errors.New("connection refused")
