/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/cmd"
	"github.com/humaidq/gnprotocol/logging"
)

func main() {
	logging.Init()

	app := &cli.Command{
		Name:  "gnprotocol",
		Usage: "Gn starting protocol prediction",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
			cmd.CmdStats,
			cmd.CmdPasscode,
			cmd.CmdPredict,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()

	if err != nil {
		log.Fatal(err)
	}
}
