// Command cmux is the CLI Client (C9): it parses top-level flags and a verb,
// connects to the cmuxd socket, and either passes a v1 line through verbatim
// or builds a v2 JSON-RPC call (spec §4.9). It generalizes the teacher's
// cmd/tmux-shim (manual os.Args parsing, no flag-parsing library) from the
// tmux wire protocol to cmuxterm's own v1/v2 surface; it keeps no debug log.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cmuxterm/internal/config"
	"cmuxterm/internal/socketserver"
)

// globalOpts holds the top-level flags parsed before the verb (spec §4.9).
type globalOpts struct {
	socketPath string
	jsonOutput bool
	idFormat   string
	window     string
	timeout    time.Duration
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, rest, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(rest) == 0 {
		printUsage()
		return 0
	}

	verb := rest[0]
	if verb == "claude-hook" {
		return runClaudeHook(opts, rest[1:])
	}

	if opts.window != "" {
		if _, err := sendLine(opts, v2Line("window.focus", map[string]any{"window": opts.window})); err != nil {
			fmt.Fprintln(os.Stderr, connectErrorMessage(opts, err))
			return 1
		}
	}

	if isV2Verb(verb) {
		return runV2(opts, verb, rest[1:])
	}
	return runV1(opts, verb, rest[1:])
}

func parseGlobalFlags(args []string) (globalOpts, []string, error) {
	opts := globalOpts{
		socketPath: defaultSocketPath(),
		idFormat:   "refs",
		timeout:    defaultTimeout(),
	}

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printUsage()
			os.Exit(0)
		case arg == "--json":
			opts.jsonOutput = true
			i++
		case arg == "--socket":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--socket requires a value")
			}
			opts.socketPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--socket="):
			opts.socketPath = strings.TrimPrefix(arg, "--socket=")
			i++
		case arg == "--id-format":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--id-format requires a value")
			}
			if err := validateIDFormat(args[i+1]); err != nil {
				return opts, nil, err
			}
			opts.idFormat = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--id-format="):
			v := strings.TrimPrefix(arg, "--id-format=")
			if err := validateIDFormat(v); err != nil {
				return opts, nil, err
			}
			opts.idFormat = v
			i++
		case arg == "--window":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--window requires a value")
			}
			opts.window = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--window="):
			opts.window = strings.TrimPrefix(arg, "--window=")
			i++
		default:
			return opts, args[i:], nil
		}
	}
	return opts, nil, nil
}

func validateIDFormat(v string) error {
	switch v {
	case "refs", "uuids", "both":
		return nil
	default:
		return fmt.Errorf("--id-format must be one of refs, uuids, both (got %q)", v)
	}
}

func defaultSocketPath() string {
	if v := strings.TrimSpace(os.Getenv("CMUX_SOCKET_PATH")); v != "" {
		return v
	}
	return config.DefaultSocketPath
}

func defaultTimeout() time.Duration {
	sec := config.DefaultCLIResponseTimeoutSec
	if v := strings.TrimSpace(os.Getenv("CMUXTERM_CLI_RESPONSE_TIMEOUT_SEC")); v != "" {
		var parsed float64
		if _, err := fmt.Sscanf(v, "%f", &parsed); err == nil && parsed > 0 {
			sec = parsed
		}
	}
	return time.Duration(sec * float64(time.Second))
}

// sendLine opens a fresh connection per request, matching the teacher's
// one-request-per-connection ipc.Send discipline (spec §5: "CLI Client is
// single-threaded, synchronous over the socket").
func sendLine(opts globalOpts, line string) (string, error) {
	return socketserver.Send(opts.socketPath, line, opts.timeout)
}

func connectErrorMessage(opts globalOpts, err error) string {
	if socketserver.IsConnectionError(err) {
		if info, statErr := os.Stat(opts.socketPath); statErr == nil {
			if owner, ok := fileOwnerUID(info); ok && owner != os.Getuid() {
				return fmt.Sprintf("socket %s is owned by another user (uid %d)", opts.socketPath, owner)
			}
		}
		return fmt.Sprintf("no server running on %s", opts.socketPath)
	}
	return err.Error()
}

func printUsage() {
	fmt.Println("cmux: control-plane CLI for cmuxterm")
	fmt.Println("Usage: cmux [--socket <path>] [--json] [--id-format refs|uuids|both] [--window <h>] <verb> [args...]")
	fmt.Println("       cmux claude-hook <session-start|stop|notification>")
	fmt.Println()
	fmt.Println("v1 verbs mirror the line protocol directly (spec §6); v2 verbs are dotted")
	fmt.Println("namespaces (window.*, workspace.*, pane.*, surface.*, browser.*, system.*).")
}
