package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/crossdeck/internal/config"
	"github.com/llehouerou/crossdeck/internal/engine"
	"github.com/llehouerou/crossdeck/internal/player"
	"github.com/llehouerou/crossdeck/internal/scanner"
	"github.com/llehouerou/crossdeck/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Folder: command line > config default > cwd
	folder := cfg.DefaultFolder
	if len(os.Args) > 1 {
		folder = os.Args[1]
	}
	if folder == "" {
		folder, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	tracks, err := scanner.Scan(folder, cfg.RecursiveScan)
	if err != nil {
		return fmt.Errorf("scan %s: %w", folder, err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no audio files found in %s", folder)
	}

	e := engine.New(player.NewDeck(), player.NewDeck())
	defer e.Close()

	e.SetVolume(cfg.Volume)
	e.SetCrossfadeSeconds(cfg.CrossfadeSeconds)
	if err := e.SetPlaylist(tracks, 0, true); err != nil {
		return err
	}

	p := tea.NewProgram(ui.New(e))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
