package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rtxtools/remixer/pkg/domain/model"
)

var (
	okColor      = color.New(color.FgGreen)
	noticeColor  = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
	labelColor   = color.New(color.Bold)
)

// humanBytes formats a byte count with a binary unit
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// progressPrinter renders download events on a single terminal line
type progressPrinter struct {
	w         io.Writer
	percent   int
	lastBytes int64
	started   bool
}

// indeterminateStep is how many bytes pass between two redraws when the total is unknown
const indeterminateStep = 256 * 1024

func (p *progressPrinter) print(ev model.ProgressEvent) {
	switch ev.Kind {
	case model.ProgressKindProgress:
		if p.started && ev.Percent == p.percent {
			return
		}
		p.started = true
		p.percent = ev.Percent
		fmt.Fprintf(p.w, "\rDownloading... %3d%% (%s / %s)", ev.Percent, humanBytes(ev.Downloaded), humanBytes(ev.Total))

	case model.ProgressKindIndeterminate:
		if p.started && ev.Downloaded-p.lastBytes < indeterminateStep {
			return
		}
		p.started = true
		p.lastBytes = ev.Downloaded
		fmt.Fprintf(p.w, "\rDownloading... %s", humanBytes(ev.Downloaded))

	case model.ProgressKindCompleted:
		if p.started {
			fmt.Fprintln(p.w)
		}
		okColor.Fprintf(p.w, "Download complete (%s)\n", humanBytes(ev.Downloaded))

	case model.ProgressKindFailed:
		if p.started {
			fmt.Fprintln(p.w)
		}
		failureColor.Fprintf(p.w, "Download failed: %v\n", ev.Err)
	}
}

func printResolution(w io.Writer, r *model.ReleaseResolution) {
	if r.FallbackUsed {
		noticeColor.Fprintf(w, "Latest release not resolved (%s), using fallback\n", r.Reason)
	} else {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Release:"), r.TagName)
	}
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("URL:"), r.URL)
}

func printRecords(w io.Writer, records model.GameRecords) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No game installed yet")
		return
	}
	for _, name := range records.Names() {
		record := records[name]
		status := okColor.Sprint("installed")
		if !record.Installed {
			status = noticeColor.Sprint("not installed")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", labelColor.Sprint(name), status, record.Path)
	}
}

func printCandidates(w io.Writer, candidates []model.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No new game found")
		return
	}
	for _, c := range candidates {
		fmt.Fprintf(w, "%s\t%s\n", noticeColor.Sprint(c.Name), c.Path)
	}
}

func printInstall(w io.Writer, result *model.InstallResult) {
	okColor.Fprintf(w, "Installed into %s (%d files)\n", result.Destination, len(result.Copied))
}
