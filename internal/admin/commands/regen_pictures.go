package commands

import (
	"context"
	"fmt"
)

type regenPicturesCmd struct{}

func init() { RegisterCmd(regenPicturesCmd{}) }

func (regenPicturesCmd) Name() string        { return "regen-pictures" }
func (regenPicturesCmd) Description() string { return "rebuild square and thumbnail derivatives" }
func (regenPicturesCmd) Usage() string       { return "regen-pictures" }

// Run пересобирает производные всех картинок. Ошибки отдельных картинок
// не прерывают обход, итог печатается одной строкой.
func (regenPicturesCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	ok, failed, err := env.Pictures.RegenerateAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "regenerated: %d ok, %d failed\n", ok, failed)
	return nil
}
