package statemachine

import (
	"strings"

	"typedshell/internal/commands"
)

// ContextStack is the ordered list of active contexts, root first. Push and
// Pop are the only mutations.
type ContextStack struct {
	contexts []commands.Context
}

// NewContextStack creates a stack holding root.
func NewContextStack(root commands.Context) *ContextStack {
	return &ContextStack{contexts: []commands.Context{root}}
}

// Push makes ctx the current context.
func (s *ContextStack) Push(ctx commands.Context) {
	s.contexts = append(s.contexts, ctx)
}

// Pop removes the current context. Popping an empty stack is a no-op.
func (s *ContextStack) Pop() (commands.Context, bool) {
	if len(s.contexts) == 0 {
		return nil, false
	}
	top := s.contexts[len(s.contexts)-1]
	s.contexts = s.contexts[:len(s.contexts)-1]
	return top, true
}

// Top returns the current context.
func (s *ContextStack) Top() (commands.Context, bool) {
	if len(s.contexts) == 0 {
		return nil, false
	}
	return s.contexts[len(s.contexts)-1], true
}

// Len returns the stack depth.
func (s *ContextStack) Len() int { return len(s.contexts) }

// Clear empties the stack, ending the session.
func (s *ContextStack) Clear() { s.contexts = nil }

// Names returns the context names from root to current.
func (s *ContextStack) Names() []string {
	names := make([]string, len(s.contexts))
	for i, c := range s.contexts {
		names[i] = c.Name()
	}
	return names
}

// Path joins the context names with dots, e.g. "root.Test".
func (s *ContextStack) Path() string {
	return strings.Join(s.Names(), ".")
}
