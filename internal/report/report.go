// Package report renders a reconciled collection into the text formats the
// project publishes: plain listings, CSV grids and Graphviz sources.
// Generators only read the collection.
package report

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Comment prefixes for generated-file headers.
const (
	CommentCSV  = "#"
	CommentDOT  = "//"
	CommentReST = ".."
)

// DefaultWBS is the Data Management WBS root.
const DefaultWBS = "02C"

// ObsoleteCodes are milestones retired from the plan but still present in
// the extract.
var ObsoleteCodes = []string{"DLP-538", "DLP-541", "DLP-458", "DM-NCSA-5", "DM-NCSA-7"}

// GanttPrefixes selects the milestones shown on the summary schedule. Some
// are not DM milestones but are included for context.
var GanttPrefixes = []string{
	"LDM-503", "LSST-1200", "T&SC-1100-0900", "COMC-1264", "CAMM6995",
	"LSST-1220", "T&SC-1150-0600", "LSST-1510", "LSST-1513", "COMC-1664",
	"LSST-1520", "LSST-1540", "LSST-1560", "LSST-1620",
}

// Header returns the "do not edit" banner written at the top of every
// generated file.
func Header(generator, commentPrefix string, now time.Time) string {
	return fmt.Sprintf("%s Auto-generated by %s on %s - DO NOT EDIT\n\n",
		commentPrefix, generator, now.Format(time.ANSIC))
}

// WriteOutput writes content to path behind the generated-file header.
func WriteOutput(path, generator, commentPrefix string, content []byte, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, Header(generator, commentPrefix, now)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func codeSet(codes []string) map[string]bool {
	out := make(map[string]bool, len(codes))
	for _, c := range codes {
		out[c] = true
	}
	return out
}
