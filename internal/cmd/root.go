package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Fetch, normalize, dedupe and persist job listings."`
	Fetch   FetchCmd   `cmd:"" help:"Fetch and normalize listings without persisting them."`
	Dedupe  DedupeCmd  `cmd:"" help:"Deduplicate an exported JSON batch."`
	Migrate MigrateCmd `cmd:"" help:"Create the jobs table in Postgres."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
	Version VersionCmd `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{}
}
