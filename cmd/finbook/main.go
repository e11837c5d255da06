package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nivkeidan/finbook/internal/api"
	"github.com/nivkeidan/finbook/internal/auth"
	"github.com/nivkeidan/finbook/internal/logging"
	"github.com/nivkeidan/finbook/internal/storage"
	"github.com/nivkeidan/finbook/internal/tui"
)

func main() {
	if len(os.Args) >= 3 && os.Args[1] == "auth" && os.Args[2] == "set" {
		if err := runAuthSet(); err != nil {
			fmt.Fprintf(os.Stderr, "auth set error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token saved to your system credential store.")
		return
	}

	if len(os.Args) >= 2 && os.Args[1] == "wipe" {
		if err := runWipe(); err != nil {
			fmt.Fprintf(os.Stderr, "wipe error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Local database removed.")
		return
	}

	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "finbook error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() error {
	log := logging.Setup()

	token, err := auth.LoadToken()
	if err != nil {
		return fmt.Errorf("auth setup: %w (run `finbook auth set`)", err)
	}

	db, cfg, err := storage.Open(context.Background())
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}
	defer db.Close()
	log.WithField("path", cfg.Path).Info("local database opened")

	client := api.New(token)

	program := tea.NewProgram(tui.New(db, client, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runAuthSet() error {
	if len(os.Args) != 3 {
		return errors.New("usage: finbook auth set")
	}

	fmt.Print("Enter finbook API token: ")
	token, err := readSecret()
	if err != nil {
		return err
	}
	fmt.Println()

	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}

	return auth.SaveToken(token)
}

func runWipe() error {
	if len(os.Args) != 2 {
		return errors.New("usage: finbook wipe")
	}
	_, err := storage.Wipe()
	return err
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
