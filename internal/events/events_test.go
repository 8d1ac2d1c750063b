package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe("a", func(_ context.Context, e Event) error {
		got = append(got, "a:"+string(e.Kind))
		return nil
	})
	b.Subscribe("b", func(_ context.Context, e Event) error {
		got = append(got, "b:"+string(e.Kind))
		return nil
	})

	b.Publish(context.Background(), New(ApplicationApproved))

	assert.Equal(t, []string{"a:application.approved", "b:application.approved"}, got)
}

func TestBus_FailingSubscriberDoesNotStopOthers(t *testing.T) {
	b := NewBus()
	called := false
	b.Subscribe("broken", func(context.Context, Event) error { return errors.New("boom") })
	b.Subscribe("ok", func(context.Context, Event) error {
		called = true
		return nil
	})

	b.Publish(context.Background(), New(DocumentUploaded))
	assert.True(t, called)
}

func TestBus_StampsTime(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	b := NewBus()
	b.now = func() time.Time { return fixed }

	var at time.Time
	b.Subscribe("t", func(_ context.Context, e Event) error {
		at = e.At
		return nil
	})
	b.Publish(context.Background(), Event{Kind: ContractSigned})
	assert.Equal(t, fixed, at)
}

func TestNew_AffectedReadModels(t *testing.T) {
	e := New(ApplicationApproved)
	require.True(t, e.Touches(ReadContract))
	require.True(t, e.Touches(ReadAdminApplicationList))
	assert.False(t, e.Touches(ReadDocuments))

	// the defaults table must not be shared with callers
	e.Affects[0] = "mutated"
	assert.Equal(t, ReadApplication, New(ApplicationApproved).Affects[0])

	for k := range affects {
		assert.NotEmpty(t, New(k).Affects, "kind %s has no read models", k)
	}
}
