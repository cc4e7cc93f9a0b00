package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimezsa/jobtrackr/internal/network"
	"github.com/jimezsa/jobtrackr/internal/store"
)

// openStore builds the selected backend. The returned close func is never nil.
func openStore(runCtx context.Context, ctx *Context, kind string, table string) (store.Store, func(), error) {
	kind = strings.ToLower(strings.TrimSpace(firstNonEmpty(kind, ctx.Config.Store, store.KindSupabase)))
	table = firstNonEmpty(table, ctx.Config.Table, store.DefaultTable)
	noop := func() {}

	switch kind {
	case store.KindMemory:
		return store.NewMemory(), noop, nil
	case store.KindPostgres:
		pg, err := store.ConnectPostgres(runCtx, ctx.Credentials.Postgres, table)
		if err != nil {
			return nil, noop, err
		}
		return pg, pg.Close, nil
	case store.KindSupabase:
		client, err := network.NewClient(nil, network.Options{Timeout: ctx.Config.Timeout()})
		if err != nil {
			return nil, noop, err
		}
		sb, err := store.NewSupabase(client, ctx.Credentials.Supabase, table)
		if err != nil {
			return nil, noop, err
		}
		return sb, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store: %s", kind)
	}
}
