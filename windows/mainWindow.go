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

// Package windows implements the pqedit desktop window.
package windows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pqedit/clip"
	"pqedit/config"
	"pqedit/datatable"
	"pqedit/fileio"
	"pqedit/session"
)

// ownSaveWindow is how long after a save change notifications are treated
// as our own.
const ownSaveWindow = 2 * time.Second

const defaultColumnWidth = 140

type MainWindow struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger

	a         fyne.App
	w         fyne.Window
	session   *session.Session
	clipboard clip.Writer

	grid      *widget.Table
	editor    *widget.Entry
	cellLabel *widget.Label
	statusBar *widget.Label

	selected    widget.TableCellID
	hasSelected bool
	dirty       bool

	watcher io.Closer
	savedAt time.Time
}

// Run opens the main window, loads path when it is not empty, and blocks
// until the window is closed.
func Run(ctx context.Context, cfg *config.Config, path string) error {
	mw := NewMainWindow(ctx, app.NewWithID("io.pqedit"), cfg)
	if path != "" {
		mw.Open(path)
	}
	mw.w.ShowAndRun()
	mw.stopWatching()
	return nil
}

// NewMainWindow builds the window on a.
func NewMainWindow(ctx context.Context, a fyne.App, cfg *config.Config) *MainWindow {
	t := &MainWindow{
		ctx:    ctx,
		cfg:    cfg,
		logger: config.GetLogger(ctx),
		a:      a,
	}

	opts := []session.Option{session.WithLogger(t.logger)}
	if fileOpts, err := cfg.FileOptions(t.logger); err == nil {
		opts = append(opts, session.WithFileOptions(fileOpts))
	}
	t.session = session.New(opts...)
	t.clipboard = clip.Func(func(text string) error {
		t.a.Clipboard().SetContent(text)
		return nil
	})

	t.a.Settings().SetTheme(&CustomTheme{})
	t.w = t.a.NewWindow("pqedit")
	t.w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	// Create status bar
	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}

	t.grid = t.newGrid()

	t.cellLabel = widget.NewLabel("")
	t.cellLabel.TextStyle = fyne.TextStyle{Monospace: true}
	t.editor = widget.NewEntry()
	t.editor.SetPlaceHolder("Select a cell to edit")
	t.editor.Disable()
	t.editor.OnSubmitted = func(text string) { t.commitEdit(text) }

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.showOpenDialog),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.Save),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), t.CopyCell),
		widget.NewToolbarAction(theme.ListIcon(), t.CopyColumn),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DownloadIcon(), func() { t.exportTable(fileio.FormatCSV) }),
		widget.NewToolbarSpacer(),
	)

	t.w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open...", t.showOpenDialog),
			fyne.NewMenuItem("Save", t.Save),
			fyne.NewMenuItem("Save As...", t.showSaveAsDialog),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Export CSV...", func() { t.exportTable(fileio.FormatCSV) }),
			fyne.NewMenuItem("Export JSON...", func() { t.exportTable(fileio.FormatJSON) }),
		),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Copy Cell", t.CopyCell),
			fyne.NewMenuItem("Copy Column", t.CopyColumn),
		),
	))

	editBar := container.NewBorder(nil, nil, t.cellLabel, nil, t.editor)
	top := container.NewVBox(toolbar, editBar)
	bottom := container.NewHBox(t.statusBar)
	t.w.SetContent(container.NewBorder(top, bottom, nil, nil, t.grid))

	t.w.SetCloseIntercept(func() {
		if !t.dirty {
			t.w.Close()
			return
		}
		dialog.ShowConfirm("Unsaved changes", "Discard unsaved edits and quit?", func(ok bool) {
			if ok {
				t.w.Close()
			}
		}, t.w)
	})

	return t
}

func (t *MainWindow) newGrid() *widget.Table {
	grid := widget.NewTableWithHeaders(
		func() (int, int) {
			a := t.session.Adapter()
			if a == nil {
				return 0, 0
			}
			return a.RowCount(), a.ColumnCount()
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("template")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			a := t.session.Adapter()
			if a == nil || id.Row >= a.RowCount() || id.Col >= a.ColumnCount() {
				return
			}
			o.(*widget.Label).SetText(a.Cell(id.Row, id.Col))
		},
	)

	grid.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		l := o.(*widget.Label)
		a := t.session.Adapter()
		switch {
		case a == nil:
			l.SetText("")
		case id.Row < 0 && id.Col >= 0 && id.Col < a.ColumnCount():
			l.SetText(a.Header(id.Col, datatable.Horizontal))
		case id.Col < 0 && id.Row >= 0 && id.Row < a.RowCount():
			l.SetText(a.Header(id.Row, datatable.Vertical))
		}
	}

	grid.OnSelected = func(id widget.TableCellID) { t.selectCell(id) }
	return grid
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// Open loads path into the session and shows it in the grid.
func (t *MainWindow) Open(path string) {
	t.SetStatus("Loading " + path + "...")

	res, err := t.session.Open(t.ctx, path)
	if err != nil {
		t.SetStatus("Failed to open " + filepath.Base(path))
		dialog.ShowError(err, t.w)
		return
	}

	t.dirty = false
	t.hasSelected = false
	t.grid.UnselectAll()
	t.editor.SetText("")
	t.editor.Disable()
	t.cellLabel.SetText("")
	for c := 0; c < res.Table.ColumnCount(); c++ {
		t.grid.SetColumnWidth(c, defaultColumnWidth)
	}
	t.grid.Refresh()
	t.w.SetTitle("pqedit - " + filepath.Base(path))

	if res.Repaired {
		t.SetStatus(fmt.Sprintf("Repaired %s: %d rows, %d columns", filepath.Base(path), res.Table.RowCount(), res.Table.ColumnCount()))
		dialog.ShowInformation("File repaired",
			fmt.Sprintf("The file could not be read normally and was recovered:\n%v\n\nSave to write a normalized copy.", res.PrimaryErr.Err), t.w)
	} else {
		t.SetStatus(fmt.Sprintf("Loaded %s: %d rows, %d columns", filepath.Base(path), res.Table.RowCount(), res.Table.ColumnCount()))
	}

	if t.cfg.Watch {
		t.watch(path)
	}
}

// Save writes the table to its current path, asking for one if needed.
func (t *MainWindow) Save() {
	if t.session.State() != session.StateLoaded {
		t.SetStatus("Nothing to save")
		return
	}
	if t.session.Path() == "" {
		t.showSaveAsDialog()
		return
	}
	_ = t.saveTo(t.session.Path(), t.session.Save)
}

// SaveAs writes the table to path and makes it the current file. Failures
// are shown in a dialog and returned.
func (t *MainWindow) SaveAs(path string) error {
	return t.saveTo(path, func(ctx context.Context) error { return t.session.SaveAs(ctx, path) })
}

func (t *MainWindow) saveTo(path string, save func(context.Context) error) error {
	t.savedAt = time.Now()
	if err := save(t.ctx); err != nil {
		t.SetStatus("Save failed")
		dialog.ShowError(err, t.w)
		return err
	}
	t.dirty = false
	t.w.SetTitle("pqedit - " + filepath.Base(path))
	t.SetStatus("Saved " + path)
	if t.cfg.Watch {
		t.watch(path)
	}
	return nil
}

func (t *MainWindow) selectCell(id widget.TableCellID) {
	a := t.session.Adapter()
	if a == nil || id.Row < 0 || id.Col < 0 {
		return
	}
	t.selected = id
	t.hasSelected = true

	t.cellLabel.SetText(fmt.Sprintf("%s[%s]", a.Header(id.Col, datatable.Horizontal), a.Header(id.Row, datatable.Vertical)))
	t.editor.SetText(a.Cell(id.Row, id.Col))
	if a.Flags(id.Row, id.Col).Has(datatable.Editable) {
		t.editor.Enable()
	} else {
		t.editor.Disable()
	}
}

func (t *MainWindow) commitEdit(text string) {
	a := t.session.Adapter()
	if a == nil || !t.hasSelected {
		return
	}
	a.SetCell(t.selected.Row, t.selected.Col, text)
	t.dirty = true
	t.grid.RefreshItem(t.selected)
	t.SetStatus(fmt.Sprintf("Edited row %d, column %s", t.selected.Row, a.Header(t.selected.Col, datatable.Horizontal)))
}

// CopyCell copies the selected cell's text.
func (t *MainWindow) CopyCell() {
	a := t.session.Adapter()
	if a == nil || !t.hasSelected {
		t.SetStatus("Select a cell to copy")
		return
	}
	text, err := clip.CopyCell(t.clipboard, a, t.selected.Row, t.selected.Col)
	if err != nil {
		dialog.ShowError(err, t.w)
		return
	}
	t.SetStatus(fmt.Sprintf("Copied %q", text))
}

// CopyColumn copies every value in the selected cell's column.
func (t *MainWindow) CopyColumn() {
	a := t.session.Adapter()
	if a == nil || !t.hasSelected {
		t.SetStatus("Select a cell in the column to copy")
		return
	}
	if _, err := clip.CopyColumn(t.clipboard, a, t.selected.Col); err != nil {
		dialog.ShowError(err, t.w)
		return
	}
	t.SetStatus(fmt.Sprintf("Copied %d values from %s", a.RowCount(), a.Header(t.selected.Col, datatable.Horizontal)))
}

func (t *MainWindow) showOpenDialog() {
	dir := ""
	if p := t.session.Path(); p != "" {
		dir = filepath.Dir(p)
	}
	NewOpenDialog(t.w, dir, t.Open).Show()
}

func (t *MainWindow) showSaveAsDialog() {
	if t.session.State() != session.StateLoaded {
		t.SetStatus("Nothing to save")
		return
	}
	t.showSaveDialog(fileio.FormatParquet, t.SaveAs)
}

// showSaveDialog asks for a destination with the extension of format and
// passes it to write.
func (t *MainWindow) showSaveDialog(format fileio.Format, write func(string) error) {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			// User cancelled
			t.SetStatus("Save canceled")
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		_ = writeChosen(path, write)
	}, t.w)

	saveDialog.SetFilter(storage.NewExtensionFileFilter([]string{format.Extension()}))
	saveDialog.SetFileName(defaultFileName(t.session.Path(), format))
	if p := t.session.Path(); p != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(p))); err == nil {
			saveDialog.SetLocation(dir)
		}
	}
	saveDialog.Show()
}

// writeChosen runs write for a destination picked in the save dialog. The
// dialog has already created the file, so a failed write that leaves it
// empty removes it again.
func writeChosen(path string, write func(string) error) error {
	err := write(path)
	if err != nil {
		if info, statErr := os.Stat(path); statErr == nil && info.Size() == 0 {
			if rmErr := os.Remove(path); rmErr != nil {
				return errors.Join(err, rmErr)
			}
		}
	}
	return err
}

func (t *MainWindow) watch(path string) {
	t.stopWatching()

	changes, closer, err := fileio.WatchFile(path)
	if err != nil {
		t.logger.Warn("cannot watch file", "path", path, "error", err)
		return
	}
	t.watcher = closer

	go func() {
		for change := range changes {
			fyne.Do(func() { t.onFileChanged(change) })
		}
	}()
}

func (t *MainWindow) onFileChanged(change fileio.Change) {
	if change.Path != absPath(t.session.Path()) || time.Since(t.savedAt) < ownSaveWindow {
		return
	}
	t.logger.Info("file changed on disk", "path", change.Path, "removed", change.Removed)
	if change.Removed {
		t.SetStatus(filepath.Base(change.Path) + " was removed from disk")
		return
	}
	t.SetStatus(filepath.Base(change.Path) + " changed on disk; reopen to see the changes")
}

func (t *MainWindow) stopWatching() {
	if t.watcher == nil {
		return
	}
	if err := t.watcher.Close(); err != nil {
		t.logger.Debug("closing watcher", "error", err)
	}
	t.watcher = nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
