package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. dev is human-readable at debug
// level, prod is JSON at info level, silent discards everything.
func NewLogger(mode string) (*zap.Logger, error) {
	switch mode {
	case "silent":
		return zap.NewNop(), nil
	case "prod":
		return zap.NewProduction()
	case "dev", "":
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}
}
