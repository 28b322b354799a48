package codegen

import (
	"fmt"
	"go/token"
)

// CollisionError reports a generated identifier that clashes with one
// already in scope.
type CollisionError struct {
	Name string
	Type string
	Pos  token.Position
	With string
}

func (e CollisionError) Error() string {
	msg := fmt.Sprintf("%s generated for %s collides with %s", e.Name, e.Type, e.With)
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}
