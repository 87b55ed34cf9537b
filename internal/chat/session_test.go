package chat

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kidandcat/firmportal/internal/upload"
)

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// fakeClock fires callbacks only from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 2, 3, 14, 5, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

var me = Sender{ID: "u1", Name: "Rina Kusuma"}

func newSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	hub := NewHub(DefaultRoster(), clock, 2*time.Second)
	s := hub.Session(me)
	t.Cleanup(func() { hub.End(me.ID) })
	return s, clock
}

func TestSelectLoadsSeed(t *testing.T) {
	s, _ := newSession(t)
	if err := s.Select(Ref{Kind: Direct, ID: "andi"}); err != nil {
		t.Fatal(err)
	}
	msgs := s.Messages()
	if len(msgs) == 0 {
		t.Fatal("no seed messages")
	}
	if msgs[0].Sender.Name != "Andi Wijaya" {
		t.Errorf("first sender = %q", msgs[0].Sender.Name)
	}

	s.Send("tambahan")
	if err := s.Select(Ref{Kind: Direct, ID: "andi"}); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Messages()); got != len(msgs) {
		t.Errorf("reselect kept %d messages, want seed of %d", got, len(msgs))
	}

	if err := s.Select(Ref{Kind: Group, ID: "pajak"}); err != nil {
		t.Fatal(err)
	}
	if got := s.Messages(); len(got) != 2 || got[0].Sender.Name != "Siti Rahayu" {
		t.Errorf("group seed = %+v", got)
	}
}

func TestSelectUnknown(t *testing.T) {
	s, _ := newSession(t)
	for _, ref := range []Ref{{Kind: Direct, ID: "ghost"}, {Kind: Group, ID: "ghost"}, {Kind: "channel", ID: "budi"}} {
		if err := s.Select(ref); !errors.Is(err, ErrUnknownConversation) {
			t.Errorf("Select(%+v) = %v, want ErrUnknownConversation", ref, err)
		}
	}
	if _, ok := s.Active(); ok {
		t.Error("failed select left an active conversation")
	}
}

func TestSendBlankAndText(t *testing.T) {
	s, _ := newSession(t)
	s.Select(Ref{Kind: Direct, ID: "andi"})
	before := len(s.Messages())

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := s.Send(text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) = %v, want ErrEmptyMessage", text, err)
		}
	}
	if got := len(s.Messages()); got != before {
		t.Fatalf("blank sends changed length to %d", got)
	}

	msg, err := s.Send("Hello")
	if err != nil {
		t.Fatal(err)
	}
	msgs := s.Messages()
	if len(msgs) != before+1 {
		t.Fatalf("length = %d, want %d", len(msgs), before+1)
	}
	last := msgs[len(msgs)-1]
	if last.ID != msg.ID || last.Sender != me || last.Content != "Hello" {
		t.Errorf("last message = %+v", last)
	}
	if last.Time != "14:05" {
		t.Errorf("Time = %q, want 14:05", last.Time)
	}
}

func TestSendWithoutConversation(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Send("hi"); !errors.Is(err, ErrNoConversation) {
		t.Errorf("Send() = %v, want ErrNoConversation", err)
	}
}

func TestScriptedReplyFromOnlineContact(t *testing.T) {
	s, clock := newSession(t)
	s.Select(Ref{Kind: Direct, ID: "budi"})
	s.Send("Sudah saya kirim drafnya")
	n := len(s.Messages())

	clock.Advance(time.Second)
	if got := len(s.Messages()); got != n {
		t.Fatalf("reply arrived early: %d messages", got)
	}
	clock.Advance(time.Second)
	msgs := s.Messages()
	if len(msgs) != n+1 {
		t.Fatalf("got %d messages after delay, want %d", len(msgs), n+1)
	}
	reply := msgs[len(msgs)-1]
	if reply.Sender.ID != "budi" || reply.Content != ReplyText {
		t.Errorf("reply = %+v", reply)
	}
}

func TestFiredRepliesReleased(t *testing.T) {
	s, clock := newSession(t)
	s.Select(Ref{Kind: Direct, ID: "budi"})
	n := len(s.Messages())
	for _, text := range []string{"satu", "dua", "tiga"} {
		s.Send(text)
	}
	s.mu.Lock()
	queued := len(s.pending)
	s.mu.Unlock()
	if queued != 3 {
		t.Fatalf("pending = %d, want 3", queued)
	}

	clock.Advance(2 * time.Second)
	if got := len(s.Messages()); got != n+6 {
		t.Fatalf("got %d messages, want %d", got, n+6)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) != 0 {
		t.Errorf("pending = %d after replies fired, want 0", len(s.pending))
	}
}

func TestNoReplyFromOfflineOrGroup(t *testing.T) {
	tests := []Ref{
		{Kind: Direct, ID: "andi"},
		{Kind: Group, ID: "tim-audit"},
	}
	for _, ref := range tests {
		s, clock := newSession(t)
		s.Select(ref)
		s.Send("halo")
		n := len(s.Messages())
		clock.Advance(time.Minute)
		if got := len(s.Messages()); got != n {
			t.Errorf("%+v: %d messages after delay, want %d", ref, got, n)
		}
	}
}

func TestReplyDroppedAfterSwitch(t *testing.T) {
	s, clock := newSession(t)
	s.Select(Ref{Kind: Direct, ID: "budi"})
	s.Send("halo")
	s.Select(Ref{Kind: Direct, ID: "andi"})
	n := len(s.Messages())

	clock.Advance(time.Minute)
	if got := len(s.Messages()); got != n {
		t.Errorf("reply for old conversation landed: %d messages, want %d", got, n)
	}
}

func TestSendAttachment(t *testing.T) {
	s, _ := newSession(t)
	s.Select(Ref{Kind: Group, ID: "pajak"})

	msg, err := s.SendAttachment(upload.File{Name: "bukti.zip", Size: 3 << 20, Type: "application/zip"})
	if err != nil {
		t.Fatalf("SendAttachment: %v", err)
	}
	if msg.Attachment == nil || msg.Attachment.SizeLabel != "3.0 MiB" {
		t.Errorf("attachment = %+v", msg.Attachment)
	}

	before := len(s.Messages())
	_, err = s.SendAttachment(upload.File{Name: "video.mp4", Size: upload.MaxBytes + 1})
	var ve *upload.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("oversized attachment error = %v", err)
	}
	if got := len(s.Messages()); got != before {
		t.Errorf("rejected attachment appended a message")
	}
}

func TestHubSessionsPerUser(t *testing.T) {
	hub := NewHub(DefaultRoster(), newFakeClock(), time.Second)
	a := hub.Session(Sender{ID: "a"})
	if hub.Session(Sender{ID: "a"}) != a {
		t.Error("same user got a new session")
	}
	if hub.Session(Sender{ID: "b"}) == a {
		t.Error("users share a session")
	}
	hub.End("a")
	if hub.Session(Sender{ID: "a"}) == a {
		t.Error("ended session was reused")
	}
}
