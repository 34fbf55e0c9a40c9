package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/xitem/pkg/adapters/fs"
	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/core"
	"github.com/aretw0/xitem/pkg/custom/tumblr"
	"github.com/aretw0/xitem/pkg/params"
)

func item(t *testing.T, title string) params.Parameters {
	t.Helper()
	p, err := params.New(func(b *params.Builder) error {
		b.SetTitle(title)
		b.SetTags("featured")
		b.AddAttachment(core.NewDataAttachment("public.png", []byte{1, 2, 3}))
		return b.Attach(tumblr.Parameters{CustomURLPathComponent: title})
	})
	require.NoError(t, err)
	return p
}

func receive(t *testing.T, out <-chan fs.Delivery) fs.Delivery {
	t.Helper()
	select {
	case d := <-out:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for delivery")
		return fs.Delivery{}
	}
}

func TestOutbox_Send(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	ob := fs.NewOutbox(dir, codec.NewYAML())

	path, err := ob.Send(context.Background(), item(t, "pancakes"))
	require.NoError(t, err)
	assert.Equal(t, ".yaml", filepath.Ext(path))
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	m, err := codec.NewYAML().Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "pancakes", params.FromMapping(m).Title())

	state := ob.State().(fs.OutboxState)
	assert.Equal(t, 1, state.Sent)
	assert.Equal(t, "yaml", state.Format)
	assert.Equal(t, "outbox", ob.ComponentType())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ob.Send(ctx, item(t, "late"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInbox_DrainInSendOrder(t *testing.T) {
	dir := t.TempDir()
	titles := []string{"first", "second", "third"}
	for i, c := range []codec.Codec{codec.NewJSON(), codec.NewTOML(), codec.NewYAML()} {
		_, err := (&fs.Outbox{Dir: dir, Codec: c}).Send(context.Background(), item(t, titles[i]))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, fs.TempFilePrefix+"x.json"), []byte("{"), 0o644))

	in, err := fs.NewInbox(dir)
	require.NoError(t, err)

	out := make(chan fs.Delivery, 10)
	n, err := in.Drain(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	for _, want := range titles {
		d := receive(t, out)
		require.NoError(t, d.Err)
		assert.Equal(t, want, d.Params.Title())
		assert.Empty(t, d.Findings)
		assert.Equal(t, want, params.DecodeRecord[tumblr.Parameters](d.Params).CustomURLPathComponent)
		require.Len(t, d.Params.Attachments(), 1)
		assert.Equal(t, []byte{1, 2, 3}, d.Params.Attachments()[0].Data)
	}

	state := in.State().(fs.InboxState)
	assert.Equal(t, 3, state.Delivered)
	assert.NotNil(t, state.LastDelivery)
}

func TestInbox_DrainMissingDirectory(t *testing.T) {
	in, err := fs.NewInbox(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	n, err := in.Drain(context.Background(), make(chan fs.Delivery))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInbox_InvalidPattern(t *testing.T) {
	_, err := fs.NewInbox(t.TempDir(), fs.WithPattern("[unclosed"))
	assert.ErrorIs(t, err, fs.ErrInvalidPattern)
}

func TestInbox_ReadReportsFindingsAndErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "typo.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"x-extention-item-title": "Apple"}`), 0o644))
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a":`), 0o644))

	in, err := fs.NewInbox(dir)
	require.NoError(t, err)

	d := in.Read(good)
	require.NoError(t, d.Err)
	require.Len(t, d.Findings, 1)
	assert.Equal(t, core.KeyTitle, d.Findings[0].Suggestion)

	d = in.Read(bad)
	assert.ErrorIs(t, d.Err, codec.ErrInvalidPayload)
}

func TestInbox_Watch(t *testing.T) {
	dir := t.TempDir()
	in, err := fs.NewInbox(dir, fs.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan fs.Delivery, 10)
	require.NoError(t, in.Watch(ctx, out))
	assert.True(t, in.State().(fs.InboxState).Watching)
	assert.ErrorIs(t, in.Watch(ctx, out), fs.ErrInboxStarted)

	// Give the watcher a moment to settle before producing.
	time.Sleep(100 * time.Millisecond)

	_, err = fs.NewOutbox(dir, codec.NewJSON()).Send(ctx, item(t, "watched"))
	require.NoError(t, err)

	d := receive(t, out)
	require.NoError(t, d.Err)
	assert.Equal(t, "watched", d.Params.Title())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0o644))
	d = receive(t, out)
	assert.Error(t, d.Err)

	cancel()
	require.Eventually(t, func() bool {
		return !in.State().(fs.InboxState).Watching
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInbox_WatchUnderSupervisor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	in, err := fs.NewInbox(dir, fs.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	out := make(chan fs.Delivery, 10)

	spec := supervisor.Spec{
		Name: "xitem-inbox",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return in.NewWorker(out), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-inbox", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))

	require.Eventually(t, func() bool {
		return in.State().(fs.InboxState).Watching
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	_, err = fs.NewOutbox(dir, nil).Send(ctx, item(t, "supervised"))
	require.NoError(t, err)
	assert.Equal(t, "supervised", receive(t, out).Params.Title())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}
