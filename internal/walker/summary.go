package walker

import (
	"github.com/vcwalk/vcwalk/internal/vcs"
)

const (
	summaryLegendConstant      = "# <-- remote changes; --> local changes; |--| diverged; M modified files; A added files; E error.\n"
	summaryRowTemplateConstant = " %s%s%s%s  %s\n"

	glyphBlankConstant    = " "
	glyphErrorConstant    = "E"
	glyphDivergedConstant = "|"
	glyphIncomingConstant = "<"
	glyphOutgoingConstant = ">"
	glyphModifiedConstant = "M"
	glyphAddedConstant    = "A"
	glyphStrokeConstant   = "-"
)

// RenderSummary prints the legend followed by one glyph row per repository
// that failed or carries findings. Clean repositories are omitted. A diverged
// repository renders as |--| in the outer columns, superseding the separate
// incoming and outgoing arrows. Failures render as EE in the middle columns.
func RenderSummary(reporter Reporter, records []RepositoryRecord) {
	reporter.Printf(summaryLegendConstant)
	for _, record := range records {
		if record.Clean() {
			continue
		}
		incomingColumn, modifiedColumn, addedColumn, outgoingColumn := summaryGlyphs(record)
		reporter.Printf(summaryRowTemplateConstant, incomingColumn, modifiedColumn, addedColumn, outgoingColumn, record.Path)
	}
}

func summaryGlyphs(record RepositoryRecord) (string, string, string, string) {
	if record.Failed() {
		return glyphBlankConstant, glyphErrorConstant, glyphErrorConstant, glyphBlankConstant
	}

	status := record.Report.Status

	incomingColumn := glyphBlankConstant
	outgoingColumn := glyphBlankConstant
	if status.Contains(vcs.StatusDiverged) {
		incomingColumn = glyphDivergedConstant
		outgoingColumn = glyphDivergedConstant
	} else {
		if status.Contains(vcs.StatusNeedsPull) {
			incomingColumn = glyphIncomingConstant
		}
		if status.Contains(vcs.StatusNeedsPush) {
			outgoingColumn = glyphOutgoingConstant
		}
	}

	modifiedColumn := glyphStrokeConstant
	if status.Contains(vcs.StatusModified) {
		modifiedColumn = glyphModifiedConstant
	}
	addedColumn := glyphStrokeConstant
	if status.Contains(vcs.StatusAdded) {
		addedColumn = glyphAddedConstant
	}

	return incomingColumn, modifiedColumn, addedColumn, outgoingColumn
}
