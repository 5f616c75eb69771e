package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/portal/internal/config"
	"github.com/csheth/portal/internal/upload"
)

type fileLoadedMsg struct {
	path string
	file *upload.File
	info upload.FileInfo
	err  error
}

type uploadResultMsg struct {
	outcome upload.Outcome
}

func loadFileJob(path string) jobRunner {
	path = config.ExpandPath(strings.TrimSpace(path))
	return func(context.Context) (tea.Msg, error) {
		file, err := upload.LoadFile(path)
		if err != nil {
			return fileLoadedMsg{path: path, err: err}, err
		}
		return fileLoadedMsg{path: path, file: file, info: upload.Inspect(*file)}, nil
	}
}

// uploadJob runs the attempt; the session itself is only touched when the
// result comes back through Update.
func uploadJob(attempt *upload.Attempt) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		outcome := attempt.Run(ctx)
		return uploadResultMsg{outcome: outcome}, outcome.Err
	}
}
