// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pqedit/fileio"
)

// OpenDialog lets the user pick a Parquet file. Directories are listed first,
// hidden entries are skipped, and only .parquet and .pq files are shown.
type OpenDialog struct {
	dialog      dialog.Dialog
	window      fyne.Window
	callback    func(path string)
	fileList    *widget.List
	entries     []dirEntry
	homeDir     string
	currentPath string
	pathLabel   *widget.Label
}

type dirEntry struct {
	name  string
	isDir bool
}

// NewOpenDialog returns a dialog that starts in dir, or the home directory
// when dir is empty. callback receives the selected file path.
func NewOpenDialog(w fyne.Window, dir string, callback func(string)) *OpenDialog {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	if dir == "" {
		dir = homeDir
	}
	return &OpenDialog{
		window:      w,
		callback:    callback,
		homeDir:     homeDir,
		currentPath: dir,
	}
}

func (od *OpenDialog) Show() {
	od.pathLabel = widget.NewLabel(od.currentPath)
	od.pathLabel.Truncation = fyne.TextTruncateEllipsis
	od.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	od.fileList = widget.NewList(
		func() int {
			return len(od.entries)
		},
		func() fyne.CanvasObject {
			icon := widget.NewIcon(theme.FileIcon())
			label := widget.NewLabel("template")
			return container.NewHBox(icon, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			cont := obj.(*fyne.Container)
			icon := cont.Objects[0].(*widget.Icon)
			label := cont.Objects[1].(*widget.Label)

			entry := od.entries[id]
			label.SetText(entry.name)
			if entry.isDir {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.DocumentIcon())
			}
		},
	)

	od.fileList.OnSelected = func(id widget.ListItemID) {
		entry := od.entries[id]
		fullPath := filepath.Join(od.currentPath, entry.name)
		if entry.isDir {
			od.currentPath = fullPath
			od.loadDirectory()
			od.fileList.UnselectAll()
			return
		}
		od.dialog.Hide()
		od.callback(fullPath)
	}

	homeButton := widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() {
		od.currentPath = od.homeDir
		od.loadDirectory()
	})
	upButton := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() {
		parent := filepath.Dir(od.currentPath)
		if parent != od.currentPath {
			od.currentPath = parent
			od.loadDirectory()
		}
	})
	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		od.loadDirectory()
	})

	filterInfo := widget.NewLabel("Showing: .parquet and .pq files, and directories")
	filterInfo.TextStyle = fyne.TextStyle{Italic: true}

	navToolbar := container.NewBorder(
		nil, nil,
		container.NewHBox(homeButton, upButton, refreshButton),
		nil,
		od.pathLabel,
	)

	content := container.NewBorder(
		container.NewVBox(navToolbar, widget.NewSeparator(), filterInfo),
		nil, nil, nil,
		od.fileList,
	)

	od.dialog = dialog.NewCustom("Open Parquet File", "Cancel", content, od.window)
	od.dialog.Resize(fyne.NewSize(800, 600))
	od.loadDirectory()
	od.dialog.Show()
}

func (od *OpenDialog) loadDirectory() {
	entries, err := listDirectory(od.currentPath)
	if err != nil {
		dialog.ShowError(err, od.window)
		return
	}
	od.entries = entries
	od.pathLabel.SetText(od.currentPath)
	od.fileList.Refresh()
}

// listDirectory returns the visible subdirectories of dir followed by its
// Parquet files, each group sorted by name.
func listDirectory(dir string) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []dirEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, dirEntry{name: name, isDir: true})
			continue
		}
		if fileio.DetectFormat(name) == fileio.FormatParquet {
			files = append(files, dirEntry{name: name})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return append(dirs, files...), nil
}
