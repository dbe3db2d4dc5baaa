package commands

import (
	"context"
	"fmt"
	"strconv"
)

type setDefaultIssuerCmd struct{}

func init() { RegisterCmd(setDefaultIssuerCmd{}) }

func (setDefaultIssuerCmd) Name() string        { return "set-default-issuer" }
func (setDefaultIssuerCmd) Description() string { return "mark an issuer as the default for invoices" }
func (setDefaultIssuerCmd) Usage() string       { return "set-default-issuer <id>" }

func (setDefaultIssuerCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return ErrUsage
	}
	if err := env.Issuers.SetDefault(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(Out, "issuer %d is now the default\n", id)
	return nil
}
