package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestAppendEvictsOldestBeyondCapacity(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 15; i++ {
		s.Append("s1", Turn{Role: RoleUser, Text: fmt.Sprintf("msg-%d", i)})
	}

	turns := s.Turns("s1")
	if len(turns) != 10 {
		t.Fatalf("expected 10 retained turns, got %d", len(turns))
	}
	if turns[0].Text != "msg-5" {
		t.Errorf("expected oldest retained turn to be msg-5, got %s", turns[0].Text)
	}
	if turns[9].Text != "msg-14" {
		t.Errorf("expected newest turn to be msg-14, got %s", turns[9].Text)
	}
}

func TestContextRendersRolePrefixedLines(t *testing.T) {
	s := NewStore(10)
	s.Append("s1", Turn{Role: RoleUser, Text: "I have a fever"})
	s.Append("s1", Turn{Role: RoleAssistant, Text: "How long have you had it?"})

	got := s.Context("s1")
	want := "user: I have a fever\nassistant: How long have you had it?"
	if got != want {
		t.Errorf("unexpected context:\n%s", got)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := NewStore(10)
	s.Append("s1", Turn{Role: RoleUser, Text: "hello"})

	if got := s.Context("s2"); got != "" {
		t.Errorf("expected empty context for fresh session, got %q", got)
	}
	if len(s.Turns("s1")) != 1 {
		t.Error("session s1 should be unaffected by reads of s2")
	}
}

func TestConcurrentAppendsStayWithinCapacity(t *testing.T) {
	s := NewStore(10)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append("s1", Turn{Role: RoleUser, Text: fmt.Sprintf("msg-%d", i)})
		}(i)
	}
	wg.Wait()

	turns := s.Turns("s1")
	if len(turns) != 10 {
		t.Fatalf("expected exactly 10 retained turns, got %d", len(turns))
	}
	for _, turn := range turns {
		if !strings.HasPrefix(turn.Text, "msg-") {
			t.Errorf("unexpected turn text %q", turn.Text)
		}
	}
}
