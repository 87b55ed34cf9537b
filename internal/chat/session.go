package chat

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kidandcat/firmportal/internal/upload"
)

var (
	ErrEmptyMessage        = errors.New("pesan kosong")
	ErrNoConversation      = errors.New("no conversation selected")
	ErrUnknownConversation = errors.New("unknown conversation")
)

// TimeLayout is how message timestamps are shown.
const TimeLayout = "15:04"

// ReplyText is the canned answer sent by an online contact.
const ReplyText = "Terima kasih atas pesannya. Saya akan segera menindaklanjuti."

type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Attachment struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
	Type      string `json:"type"`
}

type Message struct {
	ID         string      `json:"id"`
	Sender     Sender      `json:"sender"`
	Content    string      `json:"content"`
	Time       string      `json:"time"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Session is one user's view of the collaboration module.
type Session struct {
	me         Sender
	roster     Roster
	clock      Clock
	replyDelay time.Duration
	maxBytes   int64

	mu       sync.Mutex
	active   Ref
	selected bool
	messages []Message
	gen      int
	nextStop int
	pending  map[int]func() bool
}

func (s *Session) newMessage(from Sender, content string, at time.Time) Message {
	return Message{
		ID:      uuid.NewString(),
		Sender:  from,
		Content: content,
		Time:    at.Format(TimeLayout),
	}
}

// Select makes ref the active conversation and reloads its seed script.
// Replies still pending for the previous conversation are dropped.
func (s *Session) Select(ref Ref) error {
	seed, err := s.seed(ref)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.gen++
	s.active = ref
	s.selected = true
	s.messages = seed
	return nil
}

// Active returns the selected conversation.
func (s *Session) Active() (Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.selected
}

// Messages returns a copy of the active conversation in insertion order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send appends text from the session user. Blank text is rejected and the
// conversation is left untouched. Writing to an online contact schedules
// a canned reply.
func (s *Session) Send(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selected {
		return Message{}, ErrNoConversation
	}
	msg := s.newMessage(s.me, text, s.clock.Now())
	s.messages = append(s.messages, msg)
	s.scheduleReplyLocked()
	return msg, nil
}

// SendAttachment appends a file message. Only the size ceiling applies.
func (s *Session) SendAttachment(f upload.File) (Message, error) {
	if err := upload.CheckSize(f, s.maxBytes); err != nil {
		return Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selected {
		return Message{}, ErrNoConversation
	}
	msg := s.newMessage(s.me, f.Name, s.clock.Now())
	msg.Attachment = &Attachment{
		Name:      f.Name,
		Size:      f.Size,
		SizeLabel: f.SizeLabel(),
		Type:      f.Type,
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *Session) scheduleReplyLocked() {
	if s.active.Kind != Direct {
		return
	}
	c, ok := s.roster.Contact(s.active.ID)
	if !ok || !c.Online {
		return
	}
	gen := s.gen
	from := Sender{ID: c.ID, Name: c.Name}
	s.nextStop++
	slot := s.nextStop
	stop := s.clock.AfterFunc(s.replyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.pending, slot)
		if s.gen != gen {
			return
		}
		s.messages = append(s.messages, s.newMessage(from, ReplyText, s.clock.Now()))
	})
	if s.pending == nil {
		s.pending = make(map[int]func() bool)
	}
	s.pending[slot] = stop
}

func (s *Session) cancelPendingLocked() {
	for _, stop := range s.pending {
		stop()
	}
	s.pending = nil
}

// Close drops pending replies.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.gen++
}

func (s *Session) seed(ref Ref) ([]Message, error) {
	now := s.clock.Now()
	at := func(minutesAgo int) time.Time { return now.Add(-time.Duration(minutesAgo) * time.Minute) }

	switch ref.Kind {
	case Direct:
		c, ok := s.roster.Contact(ref.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownConversation, ref.ID)
		}
		them := Sender{ID: c.ID, Name: c.Name}
		return []Message{
			s.newMessage(them, "Selamat pagi, bagaimana progres review dokumen klien?", at(42)),
			s.newMessage(s.me, "Pagi, sudah 70%. Tinggal verifikasi laporan arus kas.", at(38)),
			s.newMessage(them, "Baik, tolong kabari kalau ada temuan material.", at(35)),
		}, nil
	case Group:
		g, ok := s.roster.Group(ref.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownConversation, ref.ID)
		}
		msgs := []Message{}
		lines := []string{
			"Jadwal fieldwork minggu depan sudah dikonfirmasi klien.",
			"Dokumen pendukung sudah saya unggah ke folder klien.",
		}
		for i, name := range g.Voices {
			voice := Sender{ID: strings.ToLower(strings.Fields(name)[0]), Name: name}
			msgs = append(msgs, s.newMessage(voice, lines[i%len(lines)], at(60-i*10)))
		}
		return msgs, nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownConversation, ref.Kind)
}
