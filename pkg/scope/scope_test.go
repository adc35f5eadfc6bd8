package scope

import (
	"context"
	"fmt"
	"testing"

	"github.com/vango-dev/nodeview/internal/errors"
)

type child struct {
	*Scope
	parentSet *Scope
}

func (c *child) SetParent(p *Scope) {
	c.Scope.SetParent(p)
	c.parentSet = p
}

func TestEmitRunsPipesInOrder(t *testing.T) {
	s := New("area")
	var order []string
	s.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) {
		order = append(order, "a")
		return &Signal{Type: sig.Type, Data: "changed"}, nil
	})
	s.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) {
		order = append(order, "b:"+sig.Data.(string))
		return sig, nil
	})

	out, err := s.Emit(context.Background(), &Signal{Type: "x", Data: "orig"})
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if out.Data != "changed" {
		t.Errorf("Data = %v, want changed", out.Data)
	}
	if len(order) != 2 || order[1] != "b:changed" {
		t.Errorf("order = %v", order)
	}
}

func TestEmitStopsOnNil(t *testing.T) {
	s := New("area")
	reached := false
	s.AddPipe(func(context.Context, *Signal) (*Signal, error) { return nil, nil })
	s.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) {
		reached = true
		return sig, nil
	})

	out, err := s.Emit(context.Background(), &Signal{Type: "x"})
	if err != nil || out != nil {
		t.Errorf("Emit() = %v, %v, want nil, nil", out, err)
	}
	if reached {
		t.Error("pipes after a dropping pipe must not run")
	}
}

func TestEmitPropagatesErrors(t *testing.T) {
	s := New("area")
	boom := fmt.Errorf("boom")
	s.AddPipe(func(context.Context, *Signal) (*Signal, error) { return nil, boom })

	if _, err := s.Emit(context.Background(), &Signal{}); err != boom {
		t.Errorf("Emit() error = %v, want boom", err)
	}
}

func TestUseLinksParentAndForwards(t *testing.T) {
	parent := New("area")
	c := &child{Scope: New("render")}
	var seen []string
	c.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) {
		seen = append(seen, sig.Type)
		return &Signal{Type: sig.Type, Data: "from-child"}, nil
	})

	if err := parent.Use(c); err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	if c.parentSet != parent || c.Parent() != parent || !c.HasParent() {
		t.Error("Use should call the child's SetParent with the parent")
	}
	if c.Root() != parent {
		t.Error("Root() should be the parent")
	}

	out, _ := parent.Emit(context.Background(), &Signal{Type: "render"})
	if len(seen) != 1 || out.Data != "from-child" {
		t.Errorf("seen=%v out=%v", seen, out)
	}
}

func TestUseNil(t *testing.T) {
	if err := New("area").Use(nil); err == nil {
		t.Error("Use(nil) should fail")
	}
}

func TestParentScope(t *testing.T) {
	s := New("orphan")
	if _, err := s.ParentScope(); !errors.HasCode(err, "E303") {
		t.Errorf("ParentScope() error = %v, want E303", err)
	}
}

func TestMiddlewareWrapsLaterPipes(t *testing.T) {
	s := New("area")
	var calls []string
	s.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) { return sig, nil })

	mw := func(tag string) Middleware {
		return func(scope string, next Pipe) Pipe {
			return func(ctx context.Context, sig *Signal) (*Signal, error) {
				calls = append(calls, tag+"@"+scope)
				return next(ctx, sig)
			}
		}
	}
	s.UseMiddleware(mw("outer"), mw("inner"))
	s.AddPipe(func(_ context.Context, sig *Signal) (*Signal, error) {
		calls = append(calls, "pipe")
		return sig, nil
	})

	s.Emit(context.Background(), &Signal{})
	want := []string{"outer@area", "inner@area", "pipe"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}
