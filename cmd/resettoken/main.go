// Command resettoken replaces TELEGRAM_BOT_TOKEN in .env and clears a
// stale lock file so the bot can start with the new token.
package main

import (
	"RelayBot/internal/shared/pidlock"
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const tokenKey = "TELEGRAM_BOT_TOKEN"

func main() {
	envPath := flag.String("env", ".env", "path to the .env file")
	lockPath := flag.String("lock", "bot.lock", "path to the bot lock file")
	flag.Parse()

	if err := run(*envPath, *lockPath, flag.Arg(0), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(envPath, lockPath, token string, in *os.File, out io.Writer) error {
	env, err := godotenv.Read(envPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found, create it from .env.example first", envPath)
		}
		return fmt.Errorf("read %s: %w", envPath, err)
	}

	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "RESET BOT TOKEN")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	if current := env[tokenKey]; current != "" {
		fmt.Fprintf(out, "Current token: %s\n", maskToken(current))
	}

	if token == "" {
		if token, err = promptToken(in, out); err != nil {
			return err
		}
	}

	if err := writeToken(envPath, env, token); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token updated in %s\n", envPath)

	removed, err := clearLock(lockPath)
	switch {
	case errors.Is(err, pidlock.ErrLocked):
		fmt.Fprintf(out, "The bot is still running (%v). Stop it and start it again.\n", err)
	case err != nil:
		return err
	case removed:
		fmt.Fprintln(out, "Stale lock file removed")
	}
	return nil
}

// writeToken stores token under tokenKey, keeping the other variables.
func writeToken(envPath string, env map[string]string, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	env[tokenKey] = token
	if err := godotenv.Write(env, envPath); err != nil {
		return fmt.Errorf("write %s: %w", envPath, err)
	}
	return nil
}

// clearLock deletes the lock file unless a live bot still holds it.
func clearLock(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	lock, err := pidlock.Acquire(path)
	if err != nil {
		return false, err
	}
	return true, lock.Release()
}

// promptToken reads the token without echo when stdin is a terminal.
func promptToken(in *os.File, out io.Writer) (string, error) {
	fmt.Fprintf(out, "\nNew %s: ", tokenKey)
	if term.IsTerminal(int(in.Fd())) {
		raw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return line, nil
}

func maskToken(token string) string {
	if len(token) <= 15 {
		return strings.Repeat("*", len(token))
	}
	return token[:10] + "..." + token[len(token)-5:]
}
