package chat

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"telnet-irc/errors"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

// recordingSink captures every delivered line, safe for concurrent writes.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func newTestRoom(t *testing.T, capacity, historyLimit int) *Room {
	t.Helper()
	room, err := NewRoom(capacity, historyLimit, logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	return room
}

func TestNewRoom_RejectsInvalidConfiguration(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := NewRoom(1, 10, log)
	require.ErrorIs(t, err, errors.ErrRoomConfig)

	_, err = NewRoom(2, 0, log)
	require.ErrorIs(t, err, errors.ErrRoomConfig)
}

func TestRoom_Join_CapacityIsEnforced(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)

	joined, err := room.Join(&recordingSink{}, "alice")
	req.NoError(err)
	req.True(joined)

	joined, err = room.Join(&recordingSink{}, "bob")
	req.NoError(err)
	req.True(joined)

	joined, err = room.Join(&recordingSink{}, "carol")
	req.NoError(err)
	req.False(joined)

	req.Len(room.Users(), 2)
}

func TestRoom_Join_DuplicateUsernameReturnsPermit(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)

	joined, err := room.Join(&recordingSink{}, "alice")
	req.NoError(err)
	req.True(joined)

	// duplicate join fails and must not consume a permit
	joined, err = room.Join(&recordingSink{}, "alice")
	req.NoError(err)
	req.False(joined)
	req.Len(room.Users(), 1)

	// the remaining slot is still available for somebody else
	joined, err = room.Join(&recordingSink{}, "bob")
	req.NoError(err)
	req.True(joined)
}

func TestRoom_LeaveReclaimsPermit(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)
	alice := &recordingSink{}

	joined, err := room.Join(alice, "alice")
	req.NoError(err)
	req.True(joined)
	joined, err = room.Join(&recordingSink{}, "bob")
	req.NoError(err)
	req.True(joined)

	left, err := room.Leave(alice, "alice")
	req.NoError(err)
	req.True(left)

	joined, err = room.Join(&recordingSink{}, "carol")
	req.NoError(err)
	req.True(joined)
}

func TestRoom_Leave_UnknownUser(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)

	left, err := room.Leave(&recordingSink{}, "nobody")
	req.NoError(err)
	req.False(left)
}

func TestRoom_ArgumentValidation(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)

	_, err := room.Join(&recordingSink{}, "")
	req.ErrorIs(err, errors.ErrEmptyUsername)
	_, err = room.Join(nil, "alice")
	req.ErrorIs(err, errors.ErrNilSink)

	_, err = room.Leave(&recordingSink{}, "")
	req.ErrorIs(err, errors.ErrEmptyUsername)
	_, err = room.Leave(nil, "alice")
	req.ErrorIs(err, errors.ErrNilSink)

	req.ErrorIs(room.Post("", "text"), errors.ErrEmptyUsername)
	req.ErrorIs(room.Post("alice", ""), errors.ErrEmptyText)
}

func TestRoom_Post_BroadcastsToEveryMember(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 3, 10)

	alice, bob := &recordingSink{}, &recordingSink{}
	joined, err := room.Join(alice, "alice")
	req.NoError(err)
	req.True(joined)
	joined, err = room.Join(bob, "bob")
	req.NoError(err)
	req.True(joined)

	req.NoError(room.Post("alice", "hello"))

	require.Eventually(t, func() bool {
		return len(alice.Lines()) == 1 && len(bob.Lines()) == 1
	}, waitFor, tick)
	req.Contains(alice.Lines()[0], "hello")
	req.Contains(bob.Lines()[0], "alice (")
}

// Mirrors the reference scenario: capacity 2, history 2, three posts, then
// a late joiner receives exactly the two newest messages, oldest first.
func TestRoom_HistoryReplayAfterTrim(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 2)
	alice := &recordingSink{}

	joined, err := room.Join(alice, "alice")
	req.NoError(err)
	req.True(joined)

	for _, text := range []string{"text1", "text2", "text3"} {
		req.NoError(room.Post("alice", text))
	}

	require.Eventually(t, func() bool {
		return room.historySize.Load() == 2
	}, waitFor, tick)

	bob := &recordingSink{}
	joined, err = room.Join(bob, "bob")
	req.NoError(err)
	req.True(joined)

	lines := bob.Lines()
	req.Len(lines, 2)
	req.Contains(lines[0], "text2")
	req.Contains(lines[1], "text3")
}

func TestRoom_HistoryShorterThanLimit(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(t, 2, 10)
	alice := &recordingSink{}

	joined, err := room.Join(alice, "alice")
	req.NoError(err)
	req.True(joined)

	req.NoError(room.Post("alice", "only one"))
	require.Eventually(t, func() bool {
		return len(alice.Lines()) == 1
	}, waitFor, tick)

	left, err := room.Leave(alice, "alice")
	req.NoError(err)
	req.True(left)

	bob := &recordingSink{}
	joined, err = room.Join(bob, "bob")
	req.NoError(err)
	req.True(joined)
	req.Len(bob.Lines(), 1)
	req.Contains(bob.Lines()[0], "only one")
}

func TestRoom_ConcurrentJoins_AdmitExactlyCapacity(t *testing.T) {
	req := require.New(t)
	const capacity, contenders = 5, 20
	room := newTestRoom(t, capacity, 10)

	var admitted int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			joined, err := room.Join(&recordingSink{}, fmt.Sprintf("user-%d", i))
			require.NoError(t, err)
			if joined {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	req.EqualValues(capacity, admitted)
	req.Len(room.Users(), capacity)
}

// Concurrent posters racing the trim loop must leave the counter and the
// deque in agreement.
func TestRoom_ConcurrentPosts_HistoryStaysBounded(t *testing.T) {
	req := require.New(t)
	const historyLimit = 5
	room := newTestRoom(t, 4, historyLimit)

	joined, err := room.Join(&recordingSink{}, "alice")
	req.NoError(err)
	req.True(joined)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, room.Post("alice", fmt.Sprintf("message %d", i)))
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return room.historySize.Load() == historyLimit
	}, waitFor, tick)
	req.Len(room.lastMessages(), historyLimit)

	room.historyMu.Lock()
	defer room.historyMu.Unlock()
	req.Equal(historyLimit, room.history.Len())
}
