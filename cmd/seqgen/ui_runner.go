package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/driver"
	"seqgen/internal/source"
	"seqgen/internal/ui"
)

type expandOutcome struct {
	fs      *source.FileSet
	results []driver.ExpandResult
	err     error
}

func runExpandWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*source.FileSet, []driver.ExpandResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		fs, results, err := driver.ExpandPaths(ctx, files, optsCopy)
		outcomeCh <- expandOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал; не даём воркерам заблокироваться
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
