// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/wtyctlgo/internal/meta"
)

// ErrNotConfirmed is returned when clear is refused or declined.
var ErrNotConfirmed = errors.New("not confirmed, nothing was cleared")

// ClearCommandAction deletes every product after confirmation.
func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "clear") {
		return nil
	}

	e, err := openFromCommand(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if !cmd.Bool("yes") {
		in := cmd.Root().Reader
		if !isTerminal(in) {
			return fmt.Errorf("%w: use --yes when not running interactively", ErrNotConfirmed)
		}
		msg := fmt.Sprintf("Delete all %d products? This cannot be undone", len(e.Products()))
		if !confirm(cmd.Root().Writer, in, msg) {
			return ErrNotConfirmed
		}
	}

	e.Clear()
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question on w and reads the answer from r.
func confirm(w io.Writer, r io.Reader, msg string) bool {
	fmt.Fprintf(w, "%s [y/N] ", msg)
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func ClearCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "delete all products",
		UsageText: `wtyctl clear [--yes]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  []cli.Flag{newYesFlag(), NewDataDirFlag("clear"), newTldrFlag()},
		Action: ClearCommandAction,
	}
}
