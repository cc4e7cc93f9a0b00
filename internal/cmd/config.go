package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print effective settings and which credentials are set."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

type shownConfig struct {
	config.Config
	Credentials map[string]bool `json:"credentials"`
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	creds := ctx.Credentials
	shown := shownConfig{
		Config: ctx.Config,
		Credentials: map[string]bool{
			"SERPAPI_KEY":       creds.SerpAPI.APIKey != "",
			"SUPABASE_URL":      creds.Supabase.URL != "",
			"SUPABASE_ANON_KEY": creds.Supabase.AnonKey != "",
			"SUPABASE_DB_URL":   creds.Postgres.URL != "",
		},
	}
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(shown)
}
