package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiAndRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	var calls int
	m := Multi{a, nil, b, Func(func(Kind, string) { calls++ })}

	m.Notify(KindSuccess, "done")
	m.Notify(KindError, "boom")

	assert.Equal(t, 1, a.Count(KindSuccess))
	assert.Equal(t, 1, b.Count(KindError))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []Notification{{KindSuccess, "done"}, {KindError, "boom"}}, a.All())
}

func TestTerminalPlain(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, true)

	n.Notify(KindSuccess, "Analysis completed successfully!")
	n.Notify(KindError, "Upload was deleted")
	n.Notify(KindInfo, "Processing 2 items...")

	assert.Equal(t, "✓ Analysis completed successfully!\n✗ Upload was deleted\n• Processing 2 items...\n", buf.String())
}
