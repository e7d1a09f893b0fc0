package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"chessgui/src/logx"
)

const (
	HandshakeTimeout = 2 * time.Second // uci / isready
	CloseTimeout     = 2 * time.Second
	DefaultMoveTime  = 500 * time.Millisecond
)

var ErrStopped = errors.New("uci-process stopped")

// Opponent plays replies through an external UCI engine process.
type Opponent struct {
	// init
	path     string
	args     []string
	moveTime time.Duration

	// process
	cmd *exec.Cmd
	in  io.WriteCloser
	out io.Reader

	// read stdout
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	lines  chan string

	mu   sync.Mutex
	logx logx.Logger
}

// to open a process, need to call Init()
func NewOpponent(l logx.Logger, moveTime time.Duration, enginePath string, engineArgs ...string) *Opponent {
	if moveTime <= 0 {
		moveTime = DefaultMoveTime
	}
	return &Opponent{path: enginePath, args: engineArgs, moveTime: moveTime, logx: l}
}

// open process and handshake
func (e *Opponent) Init() error {
	if e.path == "" {
		return errors.New("engine path must not be empty")
	}

	cmd := exec.Command(e.path, e.args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdin of engine %s: %w", e.path, err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdout of engine %s: %w", e.path, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error open %s engine: %w", e.path, err)
	}
	e.cmd = cmd
	return e.attach(in, out)
}

// attach starts the reader and runs the uci/isready handshake on the given pipes.
func (e *Opponent) attach(in io.WriteCloser, out io.Reader) error {
	e.in = in
	e.out = out
	e.lines = make(chan string, 256)

	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.wg.Add(1)
	go e.stdoutLoop()

	if err := e.Exec("uci"); err != nil {
		e.Close()
		return err
	}
	if err := e.waitPrefix(e.ctx, "uciok", HandshakeTimeout); err != nil {
		e.Close()
		return fmt.Errorf("error read uciok: %w", err)
	}
	if err := e.ready(e.ctx); err != nil {
		e.Close()
		return err
	}
	e.logx.Infof("open engine: %s", e.path)
	return nil
}

// command executable
func (e *Opponent) Exec(cmd string) error {
	if e.in == nil {
		return errors.New("stdin not available")
	}
	e.logx.Debugf("GUI: %s", cmd)
	_, err := io.WriteString(e.in, cmd+"\n")
	return err
}

// Reply sets the position and waits for bestmove.
func (e *Opponent) Reply(ctx context.Context, fen string, legal []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.in == nil {
		return "", errors.New("no running uci-process")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := e.Exec("position fen " + fen); err != nil {
		return "", err
	}
	if err := e.ready(ctx); err != nil {
		return "", err
	}
	if err := e.Exec(fmt.Sprintf("go movetime %d", e.moveTime.Milliseconds())); err != nil {
		return "", err
	}

	line, err := e.waitLine(ctx, "bestmove", e.moveTime+HandshakeTimeout)
	if err != nil {
		_ = e.Exec("stop")
		return "", err
	}
	f := strings.Fields(line)
	if len(f) < 2 || f[1] == "(none)" {
		return "", fmt.Errorf("engine gave no move: %q", line)
	}
	mv := strings.ToLower(f[1])
	for _, l := range legal {
		if l == mv {
			return mv, nil
		}
	}
	return "", fmt.Errorf("engine move %s is not legal", mv)
}

// Terminate process
func (e *Opponent) Close() {
	if e.cancel == nil {
		return
	}
	_ = e.Exec("quit")
	e.cancel()
	if e.in != nil {
		_ = e.in.Close()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(CloseTimeout):
		if e.cmd != nil && e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
		}
	}
	if e.cmd != nil {
		_ = e.cmd.Wait()
	}
	e.cancel = nil
	e.logx.Info("uci-process terminated")
}

func (e *Opponent) ready(ctx context.Context) error {
	if err := e.Exec("isready"); err != nil {
		return err
	}
	if err := e.waitPrefix(ctx, "readyok", HandshakeTimeout); err != nil {
		return fmt.Errorf("error read readyok: %w", err)
	}
	return nil
}

func (e *Opponent) waitPrefix(ctx context.Context, prefix string, timeout time.Duration) error {
	_, err := e.waitLine(ctx, prefix, timeout)
	return err
}

func (e *Opponent) waitLine(ctx context.Context, prefix string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-e.lines:
			if !ok {
				return "", ErrStopped
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-timer.C:
			return "", fmt.Errorf("timeout waiting for %s", prefix)
		case <-ctx.Done():
			return "", ctx.Err()
		case <-e.ctx.Done():
			return "", ErrStopped
		}
	}
}

func (e *Opponent) stdoutLoop() {
	defer e.wg.Done()
	defer close(e.lines)
	scr := bufio.NewScanner(e.out)
	for scr.Scan() {
		line := strings.TrimSpace(scr.Text())
		if line == "" {
			continue
		}
		e.logx.Debugf("ENGINE: %s", line)
		select {
		case e.lines <- line:
		case <-e.ctx.Done():
			return
		}
	}
}
