package process

import "context"

// Recorder is a Runner that never starts a process. It records every command
// and answers with Handler, or a zero exit when Handler is nil.
type Recorder struct {
	Commands []Command
	Handler  func(Command) (Result, error)
}

func (r *Recorder) Run(_ context.Context, c Command) (Result, error) {
	r.Commands = append(r.Commands, c)
	if r.Handler != nil {
		return r.Handler(c)
	}
	return Result{}, nil
}
