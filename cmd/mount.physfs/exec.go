//nolint:mnd,err113,noctx
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	"al.essio.dev/pkg/shellescape"
)

const mountTimeout = 20 * time.Second

func (mh *mountHelper) buildCommand() []string {
	parts := []string{"physfsfuse", mh.Mountpoint, mh.Source}

	return append(parts, mh.buildOptions()...)
}

func (mh *mountHelper) buildOptions() []string {
	if len(mh.Options) == 0 {
		return nil
	}

	keys := make([]string, 0, len(mh.Options))
	for k := range mh.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		val := mh.Options[key]
		parts = append(parts, "--"+key)
		if val != "" {
			parts = append(parts, val)
		}
	}

	return parts
}

func (mh *mountHelper) execute() error {
	cmdArgs := mh.buildCommand()
	cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)

	spa := &syscall.SysProcAttr{Setsid: true}
	if mh.Setuid != "" {
		uid, gid, err := resolveUser(mh.Setuid)
		if err == nil {
			spa.Credential = &syscall.Credential{Uid: uid, Gid: gid}
		} else {
			safe := make([]string, len(cmdArgs))
			for i, arg := range cmdArgs {
				safe[i] = shellescape.Quote(arg)
			}
			inner := strings.Join(safe, " ")
			outer := fmt.Sprintf("su - %s -c %s", shellescape.Quote(mh.Setuid), shellescape.Quote(inner))
			cmd = exec.Command("/bin/sh", "-c", outer)
		}
	}
	cmd.SysProcAttr = spa

	fd, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open /dev/null: %w", err)
	}
	defer fd.Close()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = fd, fd, fd

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("process error: %w", err)
	}
	_ = cmd.Process.Release()

	return mh.waitForMount()
}

func (mh *mountHelper) waitForMount() error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.After(mountTimeout)
	for {
		select {
		case <-ticker.C:
			if mounted, _ := mh.checkMountTable(); mounted {
				return nil
			}

		case <-deadline:
			if mounted, _ := mh.checkMountTable(); mounted {
				return nil
			}

			return fmt.Errorf(helpErrMountTimeout, int(mountTimeout.Seconds()))
		}
	}
}

func (mh *mountHelper) checkMountTable() (bool, error) {
	return mh.checkMountTableAt("/proc/self/mountinfo")
}

func (mh *mountHelper) checkMountTableAt(path string) (bool, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return false, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), " "+mh.Mountpoint+" ") {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("error reading /proc/self/mountinfo: %w", err)
	}

	return false, errors.New("mountpoint not yet present")
}
