package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd(rt *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "render SEED",
		Short: "Build the adapter described by a seed file and print its visible view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(args[0])
			if err != nil {
				return err
			}
			out, err := buildAndRender(seed, rt)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func buildAndRender(seed Seed, rt *appEnv) (string, error) {
	if seed.Kind == kindExpandable {
		e, err := buildTree(seed, rt)
		if err != nil {
			return "", err
		}
		return renderTree(e)
	}
	l, err := buildList(seed, rt)
	if err != nil {
		return "", err
	}
	return renderList(l)
}
