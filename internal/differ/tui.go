// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// SnapshotFile is a candidate snapshot on disk.
type SnapshotFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// ListSnapshots returns the CSV and JSON files in dir, oldest first.
func ListSnapshots(dir string) ([]SnapshotFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var files []SnapshotFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".json":
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, SnapshotFile{
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(files, func(a, b SnapshotFile) int {
		if c := a.ModTime.Compare(b.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

// SelectSnapshots lets the user pick two snapshots. The result is in list
// order, so the older pick is the previous snapshot. It is nil if the user
// quit.
func SelectSnapshots(items []SnapshotFile) []SnapshotFile {
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil
	}
	return m.(model).ordered()
}

type model struct {
	items    []SnapshotFile
	cursor   int
	selected []SnapshotFile
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if len(m.items) == 0 {
				break
			}
			if i := m.index(m.items[m.cursor]); i >= 0 {
				m.selected = slices.Delete(slices.Clone(m.selected), i, i+1)
			} else if len(m.selected) < 2 {
				m.selected = append(slices.Clone(m.selected), m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Select two snapshots:\n\n"
	for i, f := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.index(f) >= 0 {
			mark = "x"
		}

		s += fmt.Sprintf("%s [%s] %-40s %8s %s\n", cursor, mark, filepath.Base(f.Path),
			humanize.Bytes(uint64(f.Size)), f.ModTime.Format("2006-01-02T15:04:05"))
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func (m model) index(f SnapshotFile) int {
	return slices.IndexFunc(m.selected, func(s SnapshotFile) bool { return s.Path == f.Path })
}

// ordered returns the selection in list order.
func (m model) ordered() []SnapshotFile {
	if len(m.selected) != 2 {
		return nil
	}
	var out []SnapshotFile
	for _, it := range m.items {
		if m.index(it) >= 0 {
			out = append(out, it)
		}
	}
	return out
}
