package scope

import (
	"context"

	"github.com/vango-dev/nodeview/internal/errors"
)

// Signal is a tagged message flowing through a scope.
type Signal struct {
	Type string
	Data any
}

// Filler is implemented by signal payloads that can be marked as handled.
type Filler interface {
	IsFilled() bool
}

// Pipe transforms a signal. Returning a nil signal stops propagation.
type Pipe func(ctx context.Context, s *Signal) (*Signal, error)

// Middleware wraps a pipe added to the named scope.
type Middleware func(scope string, next Pipe) Pipe

// Child is a scope that can be attached under a parent with Use.
type Child interface {
	SetParent(parent *Scope)
	Emit(ctx context.Context, s *Signal) (*Signal, error)
}

// Scope is a named signal pipeline with an optional parent.
type Scope struct {
	name       string
	pipes      []Pipe
	middleware []Middleware
	parent     *Scope
}

// New creates a Scope.
func New(name string) *Scope {
	return &Scope{name: name}
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// UseMiddleware registers middleware for pipes added afterwards.
func (s *Scope) UseMiddleware(mw ...Middleware) {
	s.middleware = append(s.middleware, mw...)
}

// AddPipe appends a pipe, wrapped by the middleware registered so far.
// The first registered middleware is the outermost.
func (s *Scope) AddPipe(p Pipe) {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		p = s.middleware[i](s.name, p)
	}
	s.pipes = append(s.pipes, p)
}

// Emit runs sig through every pipe in order. It returns nil when a pipe
// dropped the signal.
func (s *Scope) Emit(ctx context.Context, sig *Signal) (*Signal, error) {
	current := sig
	for _, p := range s.pipes {
		next, err := p(ctx, current)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

// Use attaches child under s and forwards signals to it.
func (s *Scope) Use(child Child) error {
	if child == nil {
		return errors.Newf(errors.CategoryProtocol, "scope %q: nil child", s.name)
	}
	child.SetParent(s)
	s.AddPipe(child.Emit)
	return nil
}

// SetParent records the parent scope.
func (s *Scope) SetParent(parent *Scope) {
	s.parent = parent
}

// HasParent reports whether the scope has been attached.
func (s *Scope) HasParent() bool {
	return s.parent != nil
}

// Parent returns the parent scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// ParentScope returns the parent, failing with E303 when there is none.
func (s *Scope) ParentScope() (*Scope, error) {
	if s.parent == nil {
		return nil, errors.New("E303").WithDetailf("scope %q", s.name)
	}
	return s.parent, nil
}

// Root walks up to the top-most scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
