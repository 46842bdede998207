package main

import (
	"bufio"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
)

// jobRequest runs a command whose output becomes grid rows.
type jobRequest struct {
	title   string
	dir     string
	command string
	args    []string
	env     []string
}

type jobMsg interface{ isJob() }

type jobStartedMsg struct{ Title string }

type jobLogMsg struct {
	Title string
	Line  string
}

type jobFinishedMsg struct {
	Title string
	Err   error
}

type jobChannelClosedMsg struct{}

func (jobStartedMsg) isJob()       {}
func (jobLogMsg) isJob()           {}
func (jobFinishedMsg) isJob()      {}
func (jobChannelClosedMsg) isJob() {}

// jobManager runs queued jobs one at a time and feeds their output back to
// the program as messages.
type jobManager struct {
	queue   []jobRequest
	current *jobRequest
	ch      chan jobMsg
}

func newJobManager() *jobManager {
	return &jobManager{}
}

func (jm *jobManager) Running() bool { return jm.current != nil }

func (jm *jobManager) Enqueue(req jobRequest) tea.Cmd {
	jm.queue = append(jm.queue, req)
	return jm.nextCmd()
}

// Handle advances the manager after msg and returns the command that waits
// for the next message.
func (jm *jobManager) Handle(msg jobMsg) tea.Cmd {
	if _, ok := msg.(jobChannelClosedMsg); ok {
		jm.current = nil
		jm.ch = nil
		return jm.nextCmd()
	}
	if jm.ch == nil {
		return nil
	}
	return waitForJobMsg(jm.ch)
}

func (jm *jobManager) nextCmd() tea.Cmd {
	if jm.current != nil || len(jm.queue) == 0 {
		return nil
	}
	req := jm.queue[0]
	jm.queue = jm.queue[1:]
	jm.current = &req

	jm.ch = make(chan jobMsg)
	go runJob(req, jm.ch)
	return waitForJobMsg(jm.ch)
}

func runJob(req jobRequest, ch chan<- jobMsg) {
	defer close(ch)

	ch <- jobStartedMsg{Title: req.title}

	cmd := exec.Command(req.command, req.args...)
	if req.dir != "" {
		cmd.Dir = req.dir
	}
	if len(req.env) > 0 {
		env := append([]string{}, os.Environ()...)
		env = append(env, req.env...)
		cmd.Env = env
	}

	// A pty makes tools print their interactive column layout.
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 50, Cols: 400})
	if err != nil {
		ch <- jobFinishedMsg{Title: req.title, Err: err}
		return
	}
	defer ptmx.Close()

	scanner := bufio.NewScanner(ptmx)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ch <- jobLogMsg{Title: req.title, Line: scanner.Text()}
	}

	err = cmd.Wait()
	ch <- jobFinishedMsg{Title: req.title, Err: err}
}

func waitForJobMsg(ch <-chan jobMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return jobChannelClosedMsg{}
		}
		return msg
	}
}
