package plugin

import (
	"context"
	"fmt"
	"io"
)

// stubComponent is a comparable component that renders its id.
type stubComponent struct {
	id string
}

func (s *stubComponent) Render(_ context.Context, w io.Writer, _ Props) error {
	_, err := fmt.Fprint(w, s.id)
	return err
}

func (s *stubComponent) ComponentName() string { return s.id }

func stub(id string) Component {
	return &stubComponent{id: id}
}
