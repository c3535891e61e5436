// Package runner runs the download command as a child process and streams its output.
package runner

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/ameistad/dlpanel/internal/apitypes"
	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/helpers"
	"github.com/oklog/ulid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRunning = errors.New("a download is already running")
	ErrNotRunning     = errors.New("no download is running")
)

type State string

const (
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateExited   State = "exited"
)

// Publisher receives every output line of the child process.
type Publisher interface {
	Publish(line string)
}

// Config describes the command to run.
type Config struct {
	// Command is the program and its fixed leading arguments, e.g. ["python3", "py_main.py"].
	Command     []string
	Dir         string
	Env         []string
	GracePeriod time.Duration
	Logger      *zerolog.Logger
}

// Run is one execution of the download command.
type Run struct {
	ID        string
	Request   apitypes.DownloadRequest
	StartedAt time.Time

	cmd      *exec.Cmd
	done     chan struct{}
	state    State
	exitErr  error
	stopping bool
}

// Runner allows at most one run at a time.
type Runner struct {
	mutex     sync.Mutex
	config    Config
	publisher Publisher
	logger    zerolog.Logger
	current   *Run
	last      *Run
	signal    func(cmd *exec.Cmd, sig syscall.Signal) error
}

func New(config Config, publisher Publisher) (*Runner, error) {
	if len(config.Command) == 0 {
		return nil, errors.New("download command must not be empty")
	}
	if config.GracePeriod <= 0 {
		config.GracePeriod = constants.DefaultStopGracePeriod
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Runner{
		config:    config,
		publisher: publisher,
		logger:    logger.With().Str("component", "runner").Logger(),
		signal:    signalGroup,
	}, nil
}

// Args builds the argument list passed to the download command.
// Values are passed as separate arguments and never go through a shell.
func Args(req apitypes.DownloadRequest) []string {
	return []string{
		"--type", req.TypeOfMedia,
		"--name", req.Name,
		"--lang", req.Language,
		"--dl-mode", req.DLMode,
		"--provider", req.CLIProvider,
	}
}

// Start launches the command for req. It fails with ErrAlreadyRunning if a run is active.
func (r *Runner) Start(req apitypes.DownloadRequest) (*Run, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.current != nil {
		return nil, ErrAlreadyRunning
	}

	args := append(slices.Clone(r.config.Command[1:]), Args(req)...)
	// The run outlives the HTTP request that started it, so it is not bound to a request context.
	cmd := exec.Command(r.config.Command[0], args...)
	cmd.Dir = r.config.Dir
	if len(r.config.Env) > 0 {
		cmd.Env = r.config.Env
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = r.config.GracePeriod

	output := helpers.NewLineWriter(r.publishLine)
	cmd.Stdout = output
	cmd.Stderr = output

	run := &Run{
		ID:        ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Request:   req,
		StartedAt: time.Now(),
		cmd:       cmd,
		done:      make(chan struct{}),
		state:     StateRunning,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start download command: %w", err)
	}
	r.current = run

	r.logger.Info().
		Str("runID", helpers.ShortID(run.ID)).
		Str("name", req.Name).
		Str("type", req.TypeOfMedia).
		Str("language", req.Language).
		Msg("Download started")

	go r.wait(run, output)
	return run, nil
}

func (r *Runner) wait(run *Run, output *helpers.LineWriter) {
	err := run.cmd.Wait()
	output.Flush()

	r.mutex.Lock()
	stopped := run.stopping
	run.state = StateExited
	if !stopped {
		run.exitErr = err
	}
	r.current = nil
	r.last = run
	r.mutex.Unlock()
	close(run.done)

	event := r.logger.Info()
	if err != nil && !stopped {
		event = r.logger.Error().Err(err)
	}
	event.Str("runID", helpers.ShortID(run.ID)).Bool("stopped", stopped).Msg("Download finished")
}

func (r *Runner) publishLine(line string) {
	line = helpers.StripANSI(line)
	if r.publisher != nil {
		r.publisher.Publish(line)
	}
	r.logger.Debug().Str("line", line).Msg("download output")
}

// Stop interrupts the active run and waits for it to exit. If it is still
// alive after the grace period the process group is killed.
func (r *Runner) Stop(ctx context.Context) (*Run, error) {
	r.mutex.Lock()
	run := r.current
	if run == nil {
		r.mutex.Unlock()
		return nil, ErrNotRunning
	}
	alreadyStopping := run.stopping
	run.stopping = true
	run.state = StateStopping
	r.mutex.Unlock()

	if !alreadyStopping {
		r.logger.Info().Str("runID", helpers.ShortID(run.ID)).Msg("Stopping download")
		if err := r.signal(run.cmd, syscall.SIGINT); err != nil {
			// The run never got the interrupt, so a later Stop must send it again.
			r.mutex.Lock()
			run.stopping = false
			if run.state == StateStopping {
				run.state = StateRunning
			}
			r.mutex.Unlock()
			return nil, fmt.Errorf("failed to interrupt download: %w", err)
		}
	}

	timer := time.NewTimer(r.config.GracePeriod)
	defer timer.Stop()

	select {
	case <-run.done:
		return run, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		r.logger.Warn().Str("runID", helpers.ShortID(run.ID)).Dur("gracePeriod", r.config.GracePeriod).Msg("Download did not exit, killing it")
		if err := r.signal(run.cmd, syscall.SIGKILL); err != nil {
			return nil, fmt.Errorf("failed to kill download: %w", err)
		}
	}

	select {
	case <-run.done:
		return run, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Current returns a snapshot of the active run, or of the last finished run
// when nothing is active. ok is false if nothing ever ran.
func (r *Runner) Current() (snapshot RunInfo, ok bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	run := r.current
	if run == nil {
		run = r.last
	}
	if run == nil {
		return RunInfo{}, false
	}
	info := RunInfo{
		ID:        run.ID,
		Request:   run.Request,
		StartedAt: run.StartedAt,
		State:     run.state,
	}
	if run.exitErr != nil {
		info.ExitError = run.exitErr.Error()
	}
	return info, true
}

// Done is closed when the run's process has exited.
func (run *Run) Done() <-chan struct{} {
	return run.done
}

// RunInfo is a copy of a run's public state.
type RunInfo struct {
	ID        string
	Request   apitypes.DownloadRequest
	StartedAt time.Time
	State     State
	ExitError string
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return ErrNotRunning
	}
	// Negative pid addresses the whole process group started with Setpgid.
	err := syscall.Kill(-cmd.Process.Pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
