package internal

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// UIManager is the single route for user-facing output: progress bars,
// verbose diagnostics, status lines and warnings. Quiet mode silences
// everything except warnings.
type UIManager interface {
	NewProgressBar(total int, description string) ProgressBar

	Verbose(format string, args ...interface{})

	Printf(format string, args ...interface{})
	Println(args ...interface{})

	// Warnf writes to stderr regardless of quiet mode
	Warnf(format string, args ...interface{})
}

// ProgressBar abstracts the terminal progress bar so tests can swap it out
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

// StandardUIManager writes to the terminal, honoring verbose and quiet flags
type StandardUIManager struct {
	verbose bool
	quiet   bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
	}
}

func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	if ui.quiet {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &VisibleProgressBar{bar: bar}
}

func (ui *StandardUIManager) Verbose(format string, args ...interface{}) {
	if ui.verbose {
		fmt.Printf(format, args...)
	}
}

func (ui *StandardUIManager) Printf(format string, args ...interface{}) {
	if !ui.quiet {
		fmt.Printf(format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...interface{}) {
	if !ui.quiet {
		fmt.Println(args...)
	}
}

func (ui *StandardUIManager) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// VisibleProgressBar renders on the terminal
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleProgressBar) Set(current int) {
	v.bar.Set(current)
}

func (v *VisibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleProgressBar) Finish() {
	v.bar.Finish()
}

// SilentProgressBar keeps the counters without drawing anything
type SilentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *SilentProgressBar) Set(current int) {
	s.bar.Set(current)
}

func (s *SilentProgressBar) Describe(description string) {
}

func (s *SilentProgressBar) Finish() {
	s.bar.Finish()
}
