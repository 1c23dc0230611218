// Package common provides shared dependency construction for the CLI
// commands.
package common

import (
	"fmt"

	"github.com/jonesrussell/newsradar/internal/config"
	"github.com/jonesrussell/newsradar/internal/logger"
)

// Flag values bound by the root command. Subcommands read them through
// NewDeps.
var (
	// CfgFile is the --config flag value.
	CfgFile string
	// Debug is the --debug flag value.
	Debug bool
)

// Deps bundles the dependencies every command needs.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// NewDeps loads configuration and constructs the logger.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load(CfgFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logCfg := cfg.Logging
	if Debug {
		logCfg.Level = "debug"
		logCfg.Development = true
	}

	return &Deps{
		Config: cfg,
		Logger: logger.New(logCfg),
	}, nil
}
