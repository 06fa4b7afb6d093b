package service

import "realestate/internal/model"

// EventSink receives view changes. It is called on the owning loop.
type EventSink func(model.ChatEvent)

func discardEvents(model.ChatEvent) {}

// MessageList is an ordered chat transcript with at most one pending
// entry. Only the owning event loop may use it.
type MessageList struct {
	channel  string
	entries  []model.ChatEntry
	scrollTo int
	publish  EventSink
}

// NewMessageList creates an empty transcript publishing on channel
func NewMessageList(channel string, publish EventSink) *MessageList {
	if publish == nil {
		publish = discardEvents
	}
	return &MessageList{
		channel:  channel,
		scrollTo: -1,
		publish:  publish,
	}
}

// Append adds an entry at the end. A pending entry already present is
// removed first unless entry is itself pending, in which case Append is
// the same as ShowPending.
func (m *MessageList) Append(entry model.ChatEntry) {
	if entry.IsPending() {
		m.ShowPending()
		return
	}
	m.RemovePending()
	m.push(entry)
}

// User appends a user entry
func (m *MessageList) User(text string) {
	m.Append(model.ChatEntry{Origin: model.OriginUser, Text: text})
}

// System appends a system entry
func (m *MessageList) System(text string) {
	m.Append(model.ChatEntry{Origin: model.OriginSystem, Text: text})
}

// ShowPending appends the typing placeholder. It is a no-op when one is
// already shown.
func (m *MessageList) ShowPending() bool {
	if m.HasPending() {
		return false
	}
	m.push(model.ChatEntry{Origin: model.OriginPending})
	return true
}

// RemovePending removes the typing placeholder if present
func (m *MessageList) RemovePending() bool {
	for i, e := range m.entries {
		if !e.IsPending() {
			continue
		}
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		m.scrollTo = len(m.entries) - 1
		m.publish(model.ChatEvent{
			Channel:  m.channel,
			Type:     model.EventEntryRemoved,
			Index:    i,
			ScrollTo: m.scrollTo,
		})
		return true
	}
	return false
}

// Reveal replaces the typing placeholder with a system entry
func (m *MessageList) Reveal(text string) {
	m.System(text)
}

// HasPending reports whether the typing placeholder is shown
func (m *MessageList) HasPending() bool {
	for _, e := range m.entries {
		if e.IsPending() {
			return true
		}
	}
	return false
}

// Entries returns a copy of the transcript
func (m *MessageList) Entries() []model.ChatEntry {
	out := make([]model.ChatEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries, the placeholder included
func (m *MessageList) Len() int {
	return len(m.entries)
}

// ScrollTo is the index of the newest entry, or -1 when empty
func (m *MessageList) ScrollTo() int {
	return m.scrollTo
}

func (m *MessageList) push(entry model.ChatEntry) {
	m.entries = append(m.entries, entry)
	m.scrollTo = len(m.entries) - 1
	e := entry
	m.publish(model.ChatEvent{
		Channel:  m.channel,
		Type:     model.EventEntryAppended,
		Index:    m.scrollTo,
		Entry:    &e,
		ScrollTo: m.scrollTo,
	})
}
