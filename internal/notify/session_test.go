package notify

import (
	"sync"
	"testing"
)

func TestSessionStore(t *testing.T) {
	t.Run("owners_are_isolated", func(t *testing.T) {
		s := NewSessionStore()
		s.Dismiss("alice", "n1")
		s.MarkRead("alice", "n2")

		if _, ok := s.Dismissed("alice")["n1"]; !ok {
			t.Error("expected n1 dismissed for alice")
		}
		if len(s.Dismissed("bob")) != 0 || len(s.Read("bob")) != 0 {
			t.Error("bob should see no session state")
		}
	})

	t.Run("snapshots_are_copies", func(t *testing.T) {
		s := NewSessionStore()
		s.MarkRead("alice", "n1")
		snap := s.Read("alice")
		snap["n2"] = struct{}{}
		if _, ok := s.Read("alice")["n2"]; ok {
			t.Error("mutating a snapshot leaked into the store")
		}
	})

	t.Run("retain_drops_stale_reads_only", func(t *testing.T) {
		s := NewSessionStore()
		s.MarkRead("alice", "old", "live")
		s.Dismiss("alice", "old")
		s.Retain("alice", map[string]struct{}{"live": {}})

		read := s.Read("alice")
		if _, ok := read["old"]; ok {
			t.Error("stale read id should be dropped")
		}
		if _, ok := read["live"]; !ok {
			t.Error("live read id should be kept")
		}
		if _, ok := s.Dismissed("alice")["old"]; !ok {
			t.Error("dismissals should survive Retain")
		}
	})

	t.Run("concurrent_use", func(t *testing.T) {
		s := NewSessionStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.MarkRead("alice", "n")
				s.Dismiss("alice", "d")
				_ = s.Read("alice")
				_ = s.Dismissed("alice")
			}()
		}
		wg.Wait()
		if len(s.Read("alice")) != 1 || len(s.Dismissed("alice")) != 1 {
			t.Error("expected one read and one dismissed id")
		}
	})
}
