package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/fintrack/config"
)

// extensionPrefix prefixes the name of external subcommand binaries.
const extensionPrefix = "fintrack-"

// IsCommand reports whether name is a built-in subcommand.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range Commands {
		if c.Command.Name() == name {
			return true
		}
	}
	return false
}

// RunExtension attempts to find and execute an external fintrack-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed to the extension as the environment variables
// config.Load reads, so that it works on the same ledgers.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := extensionPrefix + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		log.Printf("external command %q not found in PATH: %v", name, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = os.Environ()
	if *configFile != "" {
		cmd.Env = append(cmd.Env, config.EnvConfig+"="+*configFile)
	}
	if *Verbose {
		cmd.Env = append(cmd.Env, config.EnvVerbose+"="+strconv.FormatBool(*Verbose))
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
