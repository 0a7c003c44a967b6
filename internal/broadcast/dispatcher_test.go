package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserSource struct {
	ids []int64
	err error
}

func (s *stubUserSource) ListIDs(_ context.Context) ([]int64, error) {
	return s.ids, s.err
}

type recordingSender struct {
	sent    []int64
	failFor map[int64]error
}

func (s *recordingSender) Send(_ context.Context, userID int64, _ string) error {
	if err, ok := s.failFor[userID]; ok {
		return err
	}
	s.sent = append(s.sent, userID)
	return nil
}

func TestDispatcher_Run(t *testing.T) {
	sender := &recordingSender{
		failFor: map[int64]error{3: errors.New("blocked by user")},
	}
	users := &stubUserSource{ids: []int64{1, 2, 3, 4, 5}}

	d := NewDispatcher(sender, users, 0, nil)

	report, err := d.Run(context.Background(), "привет")
	require.NoError(t, err)

	assert.Equal(t, 5, report.Attempted)
	assert.Equal(t, 4, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []int64{1, 2, 4, 5}, sender.sent)
}

func TestDispatcher_RunEmptyAudience(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, &stubUserSource{}, 0, nil)

	report, err := d.Run(context.Background(), "привет")
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
}

func TestDispatcher_RunListFailure(t *testing.T) {
	users := &stubUserSource{err: errors.New("db down")}
	d := NewDispatcher(&recordingSender{}, users, 0, nil)

	_, err := d.Run(context.Background(), "привет")
	assert.Error(t, err)
}

func TestDispatcher_PauseRespectsContext(t *testing.T) {
	sender := &recordingSender{}
	users := &stubUserSource{ids: []int64{1, 2, 3}}

	d := NewDispatcher(sender, users, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = d.Run(ctx, "привет")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish promptly with cancelled context")
	}
}

func TestDispatcher_AllFailuresAreIsolated(t *testing.T) {
	sender := &recordingSender{
		failFor: map[int64]error{
			1: errors.New("fail"),
			2: errors.New("fail"),
		},
	}
	users := &stubUserSource{ids: []int64{1, 2}}

	d := NewDispatcher(sender, users, 0, nil)

	report, err := d.Run(context.Background(), "привет")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, report.Sent)
}
