package icp

import (
	"fmt"

	"github.com/kwv/rgbdicp/rerr"
)

func errEmptyInput(stage string) error {
	return fmt.Errorf("icp: %s: %w", stage, rerr.ErrEmptyInput)
}

func errDegenerate(reason string) error {
	return fmt.Errorf("icp: %s: %w", reason, rerr.ErrDegenerate)
}

func errNonConvergence(reason string) error {
	return fmt.Errorf("icp: %s: %w", reason, rerr.ErrNonConvergence)
}

func errInvalidIndex(format string, args ...any) error {
	return fmt.Errorf("icp: %s: %w", fmt.Sprintf(format, args...), rerr.ErrInvalidIndex)
}
