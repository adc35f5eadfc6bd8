// Package scope provides the signal pipeline that links the editor core to
// its plugins.
//
// A Scope owns an ordered list of pipes. Emit passes a Signal through each
// pipe in turn; a pipe may return the signal unchanged, return an augmented
// copy, or return nil to stop propagation. Use attaches a child scope: the
// child learns its parent and receives every signal that survives the
// parent's earlier pipes.
//
//	area := scope.New("area")
//	if err := area.Use(plugin); err != nil {
//	    return err
//	}
//	out, err := area.Emit(ctx, &scope.Signal{Type: "render", Data: data})
//
// Everything runs synchronously on the caller's goroutine.
package scope
