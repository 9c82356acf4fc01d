package logging

import (
	"os"
	"strconv"
	"strings"

	"skellylogs/internal/relayq"
)

// EnvProcessName overrides the process name reported on events.
const EnvProcessName = "SKELLYLOGS_PROCESS_NAME"

// Process identifies the process and OS thread that raised an event.
type Process struct {
	PID        int
	Name       string
	TID        int64
	ThreadName string
}

var (
	pid         = os.Getpid()
	processName = resolveProcessName()
)

func resolveProcessName() string {
	if name := strings.TrimSpace(os.Getenv(EnvProcessName)); name != "" {
		return name
	}
	if relayq.IsWorker() {
		return "Worker-" + strconv.Itoa(pid)
	}
	return "MainProcess"
}

func currentProcess() Process {
	tid := threadID()
	name := "MainThread"
	if tid != int64(pid) {
		name = "Thread-" + strconv.FormatInt(tid, 10)
	}
	return Process{PID: pid, Name: processName, TID: tid, ThreadName: name}
}
