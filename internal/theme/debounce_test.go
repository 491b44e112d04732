package theme

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger("theme.css", func() { fired.Add(1) })
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "a burst fires once")
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger("theme.css", func() { fired.Add(1) })
	d.Trigger("theme.xml", func() { fired.Add(1) })

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(2), fired.Load())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger("theme.css", func() { fired.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestDebouncer_RetriggerAfterFire(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger("theme.css", func() { fired.Add(1) })
	time.Sleep(100 * time.Millisecond)
	d.Trigger("theme.css", func() { fired.Add(1) })
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(2), fired.Load())
}
