package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jlifecycle "github.com/aretw0/jotbox/pkg/adapters/lifecycle"
	"github.com/aretw0/jotbox/pkg/core"
)

func TestSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventModify, Key: "other"}
	in <- core.Event{Type: core.EventModify, Key: core.NotesKey}
	in <- core.Event{Type: core.EventDelete, Key: core.PasswordsKey}
	close(in)

	src := jlifecycle.NewSource(in, core.NotesKey, core.PasswordsKey)
	require.NoError(t, src.Start(ctx))

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"MODIFY @notes_v1", "DELETE saved_passwords"}, got)
				return
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}
