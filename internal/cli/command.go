package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"tradedesk/internal/common"

	"github.com/spf13/cobra"
)

var commandProcessWaiter sync.WaitGroup

type CommandOpts struct {
	Name  string
	Flags Flags

	Use     string
	Aliases []string
	Short   string
	Long    string
	Args    cobra.PositionalArgs

	Run func(cmd *cobra.Command, opts *Command, args []string) error
}

// NewCommand initialises and returns a data structure that contains
// a set of common constructs and information for all commands to use
func NewCommand(opts CommandOpts) *Command {
	ctx, cancel := context.WithCancel(context.Background())
	output := &Command{
		cancel:            cancel,
		ctx:               ctx,
		flags:             opts.Flags,
		name:              opts.Name,
		shutdownProcesses: map[string]func() error{},
	}
	serviceLogs := make(chan common.ServiceLog, 64)
	common.StartServiceLogLoop(serviceLogs)
	output.serviceLogs = &serviceLogs

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown_hostname"
	}
	output.hostname = hostname
	output.user = os.Getuid()
	output.group = os.Getgid()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	output.workingDirectory = wd
	output.Command = &cobra.Command{
		Use:     opts.Use,
		Aliases: opts.Aliases,
		Short:   opts.Short,
		Long:    opts.Long,
		Args:    opts.Args,
		PreRun: func(cmd *cobra.Command, args []string) {
			opts.Flags.BindViper(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.Run(cmd, output, args)
			output.shutdownOnce.Do(output.Shutdown)
			output.cancel()
			commandProcessWaiter.Wait()
			return err
		},
	}
	opts.Flags.AddToCommand(output.Command)

	return output
}

// Command is an abstraction for all of the cli's commands
type Command struct {
	cancel               context.CancelFunc
	ctx                  context.Context
	errs                 []error
	flags                Flags
	name                 string
	user                 int
	group                int
	hostname             string
	isShutdownFromSignal bool
	serviceLogs          *chan common.ServiceLog
	shutdownOnce         sync.Once
	shutdownProcesses    map[string]func() error
	shutdownMutex        sync.Mutex
	workingDirectory     string

	*cobra.Command
}

// AddShutdownProcess adds a `process` named `id` for use when the
// Shutdown() method is called
func (cd *Command) AddShutdownProcess(id string, process func() error) {
	cd.shutdownMutex.Lock()
	defer cd.shutdownMutex.Unlock()
	if _, ok := cd.shutdownProcesses[id]; ok {
		*cd.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "process[%s] was overwritten", id)
	}
	cd.shutdownProcesses[id] = process
}

// Error returns any errors
func (cd *Command) Error() error {
	return errors.Join(cd.errs...)
}

// Get returns the underlying cobra.Command instance
func (cd *Command) Get() *cobra.Command {
	return cd.Command
}

// GetContext returns a context that is cancelled once the command
// receives SIGINT/SIGTERM or its Run function returns
func (cd *Command) GetContext() context.Context {
	return cd.ctx
}

// GetFlags returns the flagset of this command, useful when creating
// alternate names for commands and needing to replicate the flagset
func (cd *Command) GetFlags() Flags {
	return cd.flags
}

// GetFullname returns the full namespaced ID of the current command
func (cd *Command) GetFullname() string {
	return strings.ToLower(AppName + "." + cd.name)
}

// GetSnakeCaseName returns the namespaced ID of the current command
// with dots replaced by underscores
func (cd *Command) GetSnakeCaseName() string {
	return strings.ReplaceAll(cd.GetFullname(), ".", "_")
}

// GetGroupId returns the group ID of the user running the application,
// useful when debugging permission errors if any
func (cd *Command) GetGroupId() int {
	return cd.group
}

// GetHostname returns the current hostname of the machine, useful
// for identifying connections and node issues especially in the case
// of flaky network errors
func (cd *Command) GetHostname() string {
	return cd.hostname
}

// GetServiceLogs returns an instance of the service logs channel
// that other components can use for logging to a central logging
// system
func (cd *Command) GetServiceLogs() chan common.ServiceLog {
	return *cd.serviceLogs
}

// GetUserId retrieves the ID of the user running the application,
// useful when debugging permission errors if any
func (cd *Command) GetUserId() int {
	return cd.user
}

// GetWorkingDirectory retrieves the current working directory
func (cd *Command) GetWorkingDirectory() string {
	return cd.workingDirectory
}

// IsReady tells the command to begin listening for system lifecycle
// events
func (cd *Command) IsReady() {
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	commandProcessWaiter.Add(1)
	go func() {
		defer commandProcessWaiter.Done()
		defer signal.Stop(signalChannel)
		select {
		case <-signalChannel:
			cd.shutdownMutex.Lock()
			cd.isShutdownFromSignal = true
			cd.shutdownMutex.Unlock()
			cd.shutdownOnce.Do(cd.Shutdown)
			cd.cancel()
		case <-cd.ctx.Done():
		}
	}()
}

// IsShutdownFromSignal reports whether the shutdown was triggered by
// the operating system rather than by the command returning
func (cd *Command) IsShutdownFromSignal() bool {
	cd.shutdownMutex.Lock()
	defer cd.shutdownMutex.Unlock()
	return cd.isShutdownFromSignal
}

// Shutdown runs every process registered through AddShutdownProcess
// in parallel and waits for all of them to return
func (cd *Command) Shutdown() {
	cd.shutdownMutex.Lock()
	processes := make(map[string]func() error, len(cd.shutdownProcesses))
	for id, process := range cd.shutdownProcesses {
		processes[id] = process
	}
	cd.shutdownMutex.Unlock()

	var waiter sync.WaitGroup
	*cd.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "triggering shutdownProcesses (%v registered)", len(processes))
	succeededCount := 0
	failedCount := 0
	var countMutex sync.Mutex
	for id, shutdownProcess := range processes {
		waiter.Add(1)
		go func(processId string, process func() error) {
			defer waiter.Done()
			*cd.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "triggering shutdownProcess[%s]", processId)
			if err := process(); err != nil {
				*cd.serviceLogs <- common.ServiceLogf(common.LogLevelError, "shutdownProcess[%s] failed: %s", processId, err.Error())
				countMutex.Lock()
				failedCount++
				cd.errs = append(cd.errs, err)
				countMutex.Unlock()
				return
			}
			countMutex.Lock()
			succeededCount++
			countMutex.Unlock()
			*cd.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "shutdownProcess[%s] succeeded", processId)
		}(id, shutdownProcess)
	}
	waiter.Wait()
	*cd.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "completed shutdownProcesses (%v successful, %v errored out)", succeededCount, failedCount)
}
