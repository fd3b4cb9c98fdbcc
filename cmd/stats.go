/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/db"
	"github.com/humaidq/gnprotocol/reference"
)

var CmdStats = &cli.Command{
	Name:  "stats",
	Usage: "Manage reference statistics",
	Flags: artifactFlags(),
	Commands: []*cli.Command{
		{
			Name:      "import",
			Usage:     "Upsert a statistics JSON file into the database",
			ArgsUsage: "<file>",
			Action:    statsImport,
		},
		{
			Name:      "check",
			Usage:     "Print the anchors of a statistics file and flag inverted summaries",
			ArgsUsage: "[file]",
			Action:    statsCheck,
		},
		{
			Name:   "list",
			Usage:  "List the statistics stored in the database",
			Action: statsList,
		},
		{
			Name:      "delete",
			Usage:     "Delete the stored statistics of one quantity",
			ArgsUsage: "<quantity>",
			Action:    statsDelete,
		},
	},
}

func openStatsDB(ctx context.Context, cmd *cli.Command) error {
	databaseURL := cmd.String("database-url")
	if databaseURL == "" {
		return errDatabaseURLRequired
	}

	if err := db.Init(ctx, databaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.SyncSchema(ctx, databaseURL); err != nil {
		db.Close()
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	return nil
}

func statsImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errStatsFileRequired
	}

	table, err := reference.LoadFile(path)
	if err != nil {
		return err
	}

	if problems := writeStatsReport(os.Stdout, table); problems > 0 {
		appLogger.Warn("Importing statistics with inverted anchors", "quantities", problems)
	}

	if err := openStatsDB(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	n, err := db.SyncReferenceStats(ctx, table)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d quantities from %s\n", n, path)
	return nil
}

func statsCheck(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = filepath.Join(cfg.ModelDir, cfg.Files.Statistics)
	}

	table, err := reference.LoadFile(path)
	if err != nil {
		return err
	}

	if problems := writeStatsReport(os.Stdout, table); problems > 0 {
		fmt.Printf("%d of %d quantities have inverted anchors\n", problems, table.Len())
		return nil
	}

	fmt.Printf("%d quantities OK\n", table.Len())
	return nil
}

func statsList(ctx context.Context, cmd *cli.Command) error {
	if err := openStatsDB(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.ListReferenceStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No reference statistics stored")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTITY\tN\tMIN\tP5\tP25\tP50\tP75\tP95\tMAX\tUPDATED")
	for _, st := range stats {
		s := st.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			st.Quantity, formatCount(s.N),
			formatAnchor(s.Min), formatAnchor(s.P5), formatAnchor(s.P25), formatAnchor(s.P50),
			formatAnchor(s.P75), formatAnchor(s.P95), formatAnchor(s.Max),
			st.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	}

	return tw.Flush()
}

func statsDelete(ctx context.Context, cmd *cli.Command) error {
	quantity := strings.TrimSpace(cmd.Args().First())
	if quantity == "" {
		return errQuantityRequired
	}

	if err := openStatsDB(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteReferenceStat(ctx, quantity); err != nil {
		return err
	}

	fmt.Printf("Deleted statistics for %s\n", reference.CanonicalKey(quantity))
	return nil
}

// writeStatsReport prints one line per quantity with its anchors and returns
// the number of quantities whose anchors decrease with rank.
func writeStatsReport(w io.Writer, table *reference.Table) int {
	problems := table.Check()

	for _, key := range table.Keys() {
		s := table.Get(key)

		anchors := make([]string, 0, 7)
		for _, k := range s.Knots() {
			anchors = append(anchors, fmt.Sprintf("P%d=%s", k.Percentile, strconv.FormatFloat(k.Value, 'f', -1, 64)))
		}
		if len(anchors) == 0 {
			anchors = append(anchors, "no anchors")
		}

		line := fmt.Sprintf("%s: %s", key, strings.Join(anchors, " "))
		if err, ok := problems[key]; ok {
			line += fmt.Sprintf(" [warning: %v]", err)
		}
		fmt.Fprintln(w, line)
	}

	return len(problems)
}

func formatAnchor(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatCount(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
