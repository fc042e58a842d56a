// Package chat owns rooms: bounded membership, bounded message history and
// best-effort broadcast to every connected member.
package chat

import (
	"container/list"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"telnet-irc/contract"
	"telnet-irc/domain"
	"telnet-irc/errors"
)

// Room is a named broadcast group. Membership size is gated solely by the
// permit pool; the membership map, broadcast group and history tolerate
// concurrent mutation from many connection goroutines.
type Room struct {
	historyLimit int

	permits chan struct{} // counting pool, one token per free member slot
	members sync.Map      // username -> join time
	group   sync.Map      // contract.Sink -> struct{}

	historyMu   sync.Mutex // guards the deque structure only
	history     *list.List // of domain.Message
	historySize atomic.Int32

	log *slog.Logger
}

func NewRoom(capacity, historyLimit int, log *slog.Logger) (*Room, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("%w: capacity %d, need at least 2", errors.ErrRoomConfig, capacity)
	}
	if historyLimit < 1 {
		return nil, fmt.Errorf("%w: history limit %d, need at least 1", errors.ErrRoomConfig, historyLimit)
	}

	permits := make(chan struct{}, capacity)
	for range capacity {
		permits <- struct{}{}
	}

	return &Room{
		historyLimit: historyLimit,
		permits:      permits,
		history:      list.New(),
		log:          log,
	}, nil
}

// Join admits a user into the room. A full room rejects immediately, there
// is no queueing. The permit is taken before the duplicate check and handed
// back on that failure path; checking membership first would change which
// joiner observes a full room under contention.
//
// On admission the current history is replayed to the joining sink, oldest
// first, before the sink starts receiving live broadcasts.
func (r *Room) Join(sink contract.Sink, username string) (bool, error) {
	if username == "" {
		return false, errors.ErrEmptyUsername
	}
	if sink == nil {
		return false, errors.ErrNilSink
	}

	select {
	case <-r.permits:
	default:
		return false, nil
	}

	if _, loaded := r.members.LoadOrStore(username, time.Now()); loaded {
		r.permits <- struct{}{}
		return false, nil
	}

	for _, msg := range r.lastMessages() {
		if err := sink.WriteLine(msg.Render()); err != nil {
			r.log.Warn("history replay failed", "user", username, "error", err)
			break
		}
	}
	r.group.Store(sink, struct{}{})

	return true, nil
}

// Leave removes a user from the room and returns their permit to the pool.
// Returns false when the user was not a member; nothing is released then.
func (r *Room) Leave(sink contract.Sink, username string) (bool, error) {
	if username == "" {
		return false, errors.ErrEmptyUsername
	}
	if sink == nil {
		return false, errors.ErrNilSink
	}

	if _, ok := r.members.LoadAndDelete(username); !ok {
		return false, nil
	}
	r.permits <- struct{}{}
	r.group.Delete(sink)

	return true, nil
}

// Users returns a snapshot of member names. Order is not stable.
func (r *Room) Users() []string {
	var users []string
	r.members.Range(func(key, _ any) bool {
		users = append(users, key.(string))
		return true
	})
	return users
}

// Post appends a message to the history and broadcasts it to every member.
// Fan-out runs on its own goroutine so a slow receiver never blocks the
// posting connection; trimming is sequenced after the broadcast attempt.
func (r *Room) Post(username, text string) error {
	if username == "" {
		return errors.ErrEmptyUsername
	}
	if text == "" {
		return errors.ErrEmptyText
	}

	msg := domain.NewMessage(username, text)
	r.historyMu.Lock()
	r.history.PushBack(msg)
	r.historyMu.Unlock()
	r.historySize.Add(1)

	line := msg.Render()
	go func() {
		r.broadcast(line)
		r.trim()
	}()

	return nil
}

func (r *Room) broadcast(line string) {
	r.group.Range(func(key, _ any) bool {
		if err := key.(contract.Sink).WriteLine(line); err != nil {
			r.log.Warn("broadcast delivery failed", "error", err)
		}
		return true
	})
}

// trim drops at most one head message per call. Concurrent posters race on
// the size counter with a CAS retry loop: each successful CAS pairs with
// exactly one head removal, so the counter and the deque length agree even
// when several broadcasts finish at once.
func (r *Room) trim() {
	for {
		current := r.historySize.Load()
		if int(current) <= r.historyLimit {
			return
		}
		if r.historySize.CompareAndSwap(current, current-1) {
			r.historyMu.Lock()
			if front := r.history.Front(); front != nil {
				r.history.Remove(front)
			}
			r.historyMu.Unlock()
			return
		}
	}
}

// lastMessages snapshots up to historyLimit newest messages, oldest first.
func (r *Room) lastMessages() []domain.Message {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()

	messages := make([]domain.Message, 0, r.historyLimit)
	for e := r.history.Back(); e != nil && len(messages) < r.historyLimit; e = e.Prev() {
		messages = append(messages, e.Value.(domain.Message))
	}
	return lo.Reverse(messages)
}
