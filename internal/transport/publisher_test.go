// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioctl/pkg/utils"
)

func TestNewPublisher_Validation(t *testing.T) {
	source := func() (any, error) { return nil, nil }

	_, err := NewPublisher(time.Second, nil, source)
	assert.Error(t, err)

	_, err = NewPublisher(time.Second, &utils.MockTransport{}, nil)
	assert.Error(t, err)

	p, err := NewPublisher(0, &utils.MockTransport{}, source)
	require.NoError(t, err)
	assert.Equal(t, time.Second, p.interval)
}

func TestPublisher_PublishWrapsPayload(t *testing.T) {
	mt := &utils.MockTransport{}
	p, err := NewPublisher(time.Hour, mt, func() (any, error) { return "snapshot", nil })
	require.NoError(t, err)

	p.Publish()
	p.Publish()

	sent := mt.Sent()
	require.Len(t, sent, 2)
	first := sent[0].(Envelope)
	second := sent[1].(Envelope)
	assert.Equal(t, uint32(1), first.Sequence)
	assert.Equal(t, uint32(2), second.Sequence)
	assert.Equal(t, "snapshot", first.Data)
	assert.NotZero(t, first.Timestamp)
}

func TestPublisher_SourceErrorSkipsTick(t *testing.T) {
	mt := &utils.MockTransport{}
	p, err := NewPublisher(time.Hour, mt, func() (any, error) { return nil, errors.New("enumerator gone") })
	require.NoError(t, err)

	p.Publish()
	assert.Empty(t, mt.Sent())
	assert.Zero(t, p.sequenceNum)
}

func TestPublisher_StartStop(t *testing.T) {
	mt := &utils.MockTransport{}
	var calls atomic.Int32
	p, err := NewPublisher(5*time.Millisecond, mt, func() (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	})
	require.NoError(t, err)

	p.Start()
	p.Start() // no-op while running
	require.Eventually(t, func() bool { return len(mt.Sent()) >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())
	n := len(mt.Sent())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, len(mt.Sent()), "no sends after Stop")

	require.NoError(t, p.Close())
	assert.True(t, mt.IsClosed())
}
