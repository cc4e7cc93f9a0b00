package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/store"
)

type MigrateCmd struct {
	Table string `help:"Table to create."`
	Print bool   `help:"Print the SQL instead of executing it."`
}

func (m *MigrateCmd) Run(ctx *Context) error {
	table := firstNonEmpty(m.Table, ctx.Config.Table, store.DefaultTable)
	if m.Print {
		_, err := fmt.Fprintln(ctx.Out, strings.Join(store.SchemaStatements(table), ";\n\n")+";")
		return err
	}

	runCtx := ctx.RunContext()
	pg, err := store.ConnectPostgres(runCtx, ctx.Credentials.Postgres, table)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Migrate(runCtx); err != nil {
		return err
	}
	ctx.UI.Successf("Table %s is ready", table)
	return nil
}
