// SPDX-License-Identifier: MIT
package utils

import (
	"errors"
	"sync"
	"testing"
)

func TestMockTransport(t *testing.T) {
	tests := []struct {
		name  string
		input []any
	}{
		{"Empty", nil},
		{"Single Value", []any{"a"}},
		{"Mixed Values", []any{1, "two", map[string]int{"three": 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := &MockTransport{}
			for _, v := range tt.input {
				if err := mt.Send(v); err != nil {
					t.Errorf("MockTransport.Send() error = %v", err)
				}
			}
			if got := len(mt.Sent()); got != len(tt.input) {
				t.Errorf("MockTransport.Sent() length = %d, want %d", got, len(tt.input))
			}
		})
	}
}

func TestMockTransport_SendErr(t *testing.T) {
	boom := errors.New("boom")
	mt := &MockTransport{SendErr: boom}
	if err := mt.Send(1); !errors.Is(err, boom) {
		t.Errorf("MockTransport.Send() error = %v, want %v", err, boom)
	}
	if len(mt.Sent()) != 0 {
		t.Error("failed sends must not be recorded")
	}
}

func TestMockTransport_SentIsCopy(t *testing.T) {
	mt := &MockTransport{}
	_ = mt.Send(1)
	sent := mt.Sent()
	sent[0] = 999
	if mt.Sent()[0] != 1 {
		t.Error("MockTransport.Sent() returned internal slice")
	}
}

func TestMockTransport_Concurrent(t *testing.T) {
	mt := &MockTransport{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = mt.Send(i)
		}(i)
	}
	wg.Wait()
	_ = mt.Close()

	if len(mt.Sent()) != 8 {
		t.Errorf("MockTransport.Sent() length = %d, want 8", len(mt.Sent()))
	}
	if !mt.IsClosed() {
		t.Error("MockTransport.Close() not recorded")
	}
}
