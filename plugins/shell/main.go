//go:build unix

// Command shell is an airsketch plugin that runs a shell command bound to
// a gesture. The binding config carries the command:
//
//	{"command": "playerctl play-pause"}
//
// The "run" action detaches the command and returns immediately; "exec"
// waits for it and returns its output.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/ayusman/airsketch/internal/plugin"
)

type config struct {
	Command string            `json:"command"`
	Env     map[string]string `json:"env"`
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	var cfg config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(plugin.Response{Error: fmt.Sprintf("invalid config: %v", err)})
			return
		}
	}
	if strings.TrimSpace(cfg.Command) == "" {
		writeResponse(plugin.Response{Error: "command is required"})
		return
	}

	cmd := exec.Command("sh", "-c", cfg.Command)
	cmd.Env = append(os.Environ(),
		"AIRSKETCH_GESTURE="+req.Gesture,
		fmt.Sprintf("AIRSKETCH_SCORE=%.4f", req.Score),
	)
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	switch req.Action {
	case "run":
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
		if err := cmd.Start(); err != nil {
			writeResponse(plugin.Response{Error: fmt.Sprintf("start failed: %v", err)})
			return
		}
		data, _ := json.Marshal(map[string]int{"pid": cmd.Process.Pid})
		writeResponse(plugin.Response{Success: true, Data: data})

	case "exec":
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		err := cmd.Run()
		data, _ := json.Marshal(map[string]string{"output": out.String()})
		if err != nil {
			writeResponse(plugin.Response{Error: fmt.Sprintf("command failed: %v", err), Data: data})
			return
		}
		writeResponse(plugin.Response{Success: true, Data: data})

	default:
		writeResponse(plugin.Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
	}
}

func writeResponse(resp plugin.Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
