package main

import (
	"fmt"
	"time"

	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/mcptools"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/koustreak/colmeta/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Print the column descriptors of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			reader, err := a.reader(db)
			if err != nil {
				return err
			}
			cols, err := reader.ReadColumns(ctx, args[0])
			if err != nil {
				return err
			}
			doc := export.NewDocument(&schema.Table{Name: args[0], Columns: cols})
			return export.Encode(cmd.OutOrStdout(), a.outputFormat(), doc)
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			tables, err := db.ListTables(ctx)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "export [tables...]",
		Short: "Write schema snapshots to object storage",
		Long: `export reads the named tables, or every table when none are named, and
writes one snapshot object per table to the configured bucket under
<prefix>/<table>.<format>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exporter, closeStore, err := a.exporter(ctx, bucket)
			if err != nil {
				return err
			}
			defer closeStore()

			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			reader, err := a.reader(db)
			if err != nil {
				return err
			}
			tables, err := reader.ReadTables(ctx, args...)
			if err != nil {
				return err
			}

			written, err := exporter.Export(ctx, tables)
			if err != nil {
				return err
			}
			for _, obj := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", obj.Key, obj.Size)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "target bucket (defaults to filestore.bucket)")
	return cmd
}

func newSnapshotsCmd(a *app) *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "snapshots [table]",
		Short: "List exported snapshots, or print one",
		Long: `snapshots lists the tables that have a snapshot in the configured bucket,
with the size and modification time of each object. Given a table name it
prints that snapshot instead, without touching the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exporter, closeStore, err := a.exporter(ctx, bucket)
			if err != nil {
				return err
			}
			defer closeStore()

			if len(args) == 1 {
				doc, err := exporter.Load(ctx, args[0])
				if err != nil {
					return err
				}
				return export.Encode(cmd.OutOrStdout(), a.outputFormat(), doc)
			}

			tables, err := exporter.Tables(ctx)
			if err != nil {
				return err
			}
			for _, t := range tables {
				info, err := exporter.Stat(ctx, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\n", t, info.Size, info.LastModified.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "source bucket (defaults to filestore.bucket)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve column metadata over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			reader, err := a.reader(db)
			if err != nil {
				return err
			}
			return server.New(db, reader, a.log).ListenAndServe(ctx, &a.cfg.Server)
		},
	}

	cmd.Flags().String("addr", "", "listen address (defaults to server.addr)")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve column metadata as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			reader, err := a.reader(db)
			if err != nil {
				return err
			}
			a.log.Info("serving MCP on stdio")
			return mcpserver.ServeStdio(mcptools.NewServer(db, reader, version))
		},
	}
}
