package audio

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// lookupProcess resolves pid to an OS process. A pid that no longer exists
// yields nil and no error; sessions regularly outlive their processes.
var lookupProcess = func(pid uint32) (*process.Process, error) {
	p, err := process.NewProcess(int32(pid))
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up process %d: %w", pid, err)
	}
	return p, nil
}
