package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Evaluation met the minimum grade
	ExitGradeBelow = 1 // Evaluation finished below --min-grade
	ExitError      = 2 // Configuration or runtime error
)

// GradeBelowMinimumError indicates that the evaluation ran successfully,
// but the title graded below the requested minimum.
type GradeBelowMinimumError struct {
	Title   string
	Grade   models.Grade
	Minimum models.Grade
}

func (e *GradeBelowMinimumError) Error() string {
	return fmt.Sprintf("%q graded %s, below the minimum %s", e.Title, e.Grade, e.Minimum)
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check error type to determine exit code
	var gradeErr *GradeBelowMinimumError
	if errors.As(err, &gradeErr) {
		return ExitGradeBelow
	}

	// All other errors are configuration/runtime errors
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
