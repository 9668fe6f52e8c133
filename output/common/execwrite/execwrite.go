// Package execwrite provides a shared session that streams audio into the
// stdin of a child process.
package execwrite

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/noriah/pitchline/output"
	"github.com/pkg/errors"
)

// Session is a session that writes floating-point audio values to a Cmd.
type Session struct {
	// OnStart is called once the process is running. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// prevents cmd.Stderr from pointing to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  output.SessionConfig

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewSession creates a new execwrite session. It never returns an error.
func NewSession(argv []string, cfg output.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv: argv,
		cfg:  cfg,
	}
}

// Start runs the command and copies src into its stdin until the session is
// closed or the process exits.
func (s *Session) Start(ctx context.Context, src io.Reader) error {
	if s.cfg.ChannelCount < 1 {
		return errors.New("invalid channel count")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// the process lives until Close, not until the caller's ctx ends.
	runCtx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(runCtx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	in, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return errors.Wrap(err, "failed to get stdin pipe")
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			cancel()
			cmd.Wait()
			return err
		}
	}

	s.cancel = cancel
	s.done = make(chan struct{})

	// write whole frames only so the child never sees a split sample.
	frame := s.cfg.FrameBytes()
	buf := make([]byte, frame*256)

	go func() {
		defer close(s.done)
		defer cmd.Wait()
		defer in.Close()

		for {
			n, err := io.ReadFull(src, buf)
			n -= n % frame

			if n > 0 {
				if _, werr := in.Write(buf[:n]); werr != nil {
					return
				}
			}

			if err != nil || runCtx.Err() != nil {
				return
			}
		}
	}()

	return nil
}

// Close stops the child process. Only the first call does anything.
func (s *Session) Close() error {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}

		s.cancel()
		<-s.done
	})

	return nil
}
