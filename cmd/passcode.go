/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/config"
)

var CmdPasscode = &cli.Command{
	Name:  "passcode",
	Usage: "Allow-list passcode helpers",
	Commands: []*cli.Command{
		{
			Name:  "hash",
			Usage: "Print a bcrypt hash for a passcode_hash entry",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "passcode",
					Usage: "passcode to hash (read from stdin when omitted)",
				},
			},
			Action: passcodeHash,
		},
	},
}

func passcodeHash(_ context.Context, cmd *cli.Command) error {
	passcode := cmd.String("passcode")
	if passcode == "" {
		var err error
		if passcode, err = readPasscode(os.Stdin); err != nil {
			return err
		}
	}

	hash, err := config.HashPasscode(passcode)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}

// readPasscode reads the first line of r without its line ending.
func readPasscode(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read passcode: %w", err)
	}

	passcode := strings.TrimRight(line, "\r\n")
	if passcode == "" {
		return "", errPasscodeRequired
	}
	return passcode, nil
}
