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
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/dialog"

	"pqedit/fileio"
	"pqedit/session"
)

// exportTable asks for a destination and writes the table in format.
func (t *MainWindow) exportTable(format fileio.Format) {
	if t.session.State() != session.StateLoaded {
		t.SetStatus("Nothing to export")
		return
	}

	t.showSaveDialog(format, func(path string) error {
		t.SetStatus("Exporting...")
		fileOpts, err := t.cfg.FileOptions(t.logger)
		if err == nil {
			err = fileio.ExportFile(t.ctx, path, format, t.session.Table(), fileOpts)
		}
		if err != nil {
			t.SetStatus("Export failed")
			dialog.ShowError(fmt.Errorf("export failed: %w", err), t.w)
			return err
		}
		t.SetStatus("Exported " + path)
		dialog.ShowInformation("Export Successful",
			fmt.Sprintf("Data exported successfully to:\n%s", path), t.w)
		return nil
	})
}

// defaultFileName suggests a file name for saving current in format.
func defaultFileName(current string, format fileio.Format) string {
	if current == "" {
		return "untitled" + format.Extension()
	}
	base := filepath.Base(current)
	return cleanFilename(strings.TrimSuffix(base, filepath.Ext(base))) + format.Extension()
}

// cleanFilename replaces spaces with underscores.
func cleanFilename(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
