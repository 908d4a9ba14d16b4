package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/suitools/suicli/internal/replay"
)

func (c *ReplayCmd) Run(rc *runContext) error {
	path := c.File
	if path == "" {
		latest, err := latestTranscript(rc.cfg.Session.TranscriptDir)
		if err != nil {
			return err
		}
		path = latest
	}
	if c.Follow {
		return replay.Follow(path)
	}
	return replay.Show(path)
}

// latestTranscript returns the most recently modified transcript file.
func latestTranscript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no transcripts found in %s: %w", dir, err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(dir, e.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no transcripts found in %s", dir)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod > candidates[j].mod })
	return candidates[0].path, nil
}
