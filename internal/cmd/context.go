package cmd

import (
	"context"
	"io"

	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out         io.Writer
	Err         io.Writer
	UI          *ui.UI
	Config      config.Config
	Credentials config.Credentials
	ConfigDir   string
	Logger      zerolog.Logger
	Verbose     bool
	JSONOutput  bool
	PlainText   bool
	Version     string
	ColorMode   ui.ColorMode

	// Base is cancelled on interrupt. Nil means context.Background.
	Base context.Context
}

func (c *Context) RunContext() context.Context {
	if c == nil || c.Base == nil {
		return context.Background()
	}
	return c.Base
}
