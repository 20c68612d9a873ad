package transcript

import (
	"io"

	"captiongen/internal/fileutil"
)

const exportMode = 0o644

// SaveSRT writes the SubRip rendering to path, replacing any existing file.
func (t *Transcript) SaveSRT(path string, opts ExportOptions) error {
	return fileutil.WriteFileAtomic(path, exportMode, func(w io.Writer) error {
		return t.WriteSRT(w, opts)
	})
}

// SaveVTT writes the WebVTT rendering to path, replacing any existing file.
func (t *Transcript) SaveVTT(path string, opts ExportOptions) error {
	return fileutil.WriteFileAtomic(path, exportMode, func(w io.Writer) error {
		return t.WriteVTT(w, opts)
	})
}

// SaveTSV writes the tab-separated rendering to path, replacing any existing file.
func (t *Transcript) SaveTSV(path string) error {
	return fileutil.WriteFileAtomic(path, exportMode, t.WriteTSV)
}
