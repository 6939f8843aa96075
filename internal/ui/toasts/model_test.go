package toasts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovine/horizon/internal/ui/messages"
)

func TestPushAndExpire(t *testing.T) {
	m := New(3 * time.Second)
	m.SetSize(80)

	cmd := m.Push("saved", messages.ToastSuccess)
	require.NotNil(t, cmd)
	require.True(t, m.Active())
	assert.Contains(t, m.View(), "saved")

	m, _ = m.Update(expireMsg{id: 1})
	assert.False(t, m.Active())
	assert.Empty(t, m.View())
}

func TestLateExpireIsNoop(t *testing.T) {
	m := New(3 * time.Second)
	m.Push("first", messages.ToastDefault)
	m.Dismiss()
	require.False(t, m.Active())

	m.Push("second", messages.ToastDefault)

	// The first toast's timer fires after it was already dismissed.
	m, _ = m.Update(expireMsg{id: 1})
	assert.True(t, m.Active())
	assert.Contains(t, m.View(), "second")
}

func TestOldestFirstOrdering(t *testing.T) {
	m := New(3 * time.Second)
	m.SetSize(80)
	m.Push("one", messages.ToastDefault)
	m.Push("two", messages.ToastError)
	m.Push("three", messages.ToastSuccess)

	view := m.View()
	require.True(t, strings.Index(view, "one") < strings.Index(view, "two"))
	require.True(t, strings.Index(view, "two") < strings.Index(view, "three"))
}

func TestToastMsgRouted(t *testing.T) {
	m := New(3 * time.Second)
	m, cmd := m.Update(messages.ToastMsg{Text: "hello", Variant: messages.ToastError})
	require.NotNil(t, cmd)
	assert.True(t, m.Active())
	assert.Contains(t, m.View(), "hello")
}

func TestClear(t *testing.T) {
	m := New(3 * time.Second)
	m.Push("one", messages.ToastDefault)
	m.Push("two", messages.ToastDefault)
	m.Clear()
	assert.False(t, m.Active())
}
