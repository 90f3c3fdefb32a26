package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"adaptercore/internal/checkpoint"
	"adaptercore/internal/codec"
	"adaptercore/pkg/adapter"
)

func newSaveCmd(rt *appEnv) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "save SEED",
		Short: "Build the adapter described by a seed file and checkpoint it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				key = seed.Kind + "/" + uuid.NewString()
			}
			var saver checkpoint.Saver
			if seed.Kind == kindExpandable {
				saver, err = buildTree(seed, rt)
			} else {
				saver, err = buildList(seed, rt)
			}
			if err != nil {
				return err
			}
			tr, err := rt.transport(cmd.Context())
			if err != nil {
				return err
			}
			info, err := checkpoint.Save(cmd.Context(), tr, key, saver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s) via %s\n", info.Key, humanize.Bytes(uint64(info.Size)), tr.Driver())
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "checkpoint key (default <kind>/<uuid>)")
	return cmd
}

func newShowCmd(rt *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Restore a checkpoint and print its visible view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := rt.transport(cmd.Context())
			if err != nil {
				return err
			}
			var out string
			_, err = checkpoint.Load(cmd.Context(), tr, args[0], func(blob []byte) error {
				_, kind, err := codec.Peek(blob)
				if err != nil {
					return err
				}
				if kind == codec.KindExpandable {
					e := adapter.NewExpandable[string, entry](adapter.WithGroupLogger(rt.logger))
					if err := e.Restore(blob, adapter.RestoreOptions[string]{}, adapter.RestoreOptions[entry]{}); err != nil {
						return err
					}
					out, err = renderTree(e)
					return err
				}
				l := adapter.NewList[entry](adapter.WithLogger(rt.logger))
				if err := l.Restore(blob, adapter.RestoreOptions[entry]{}); err != nil {
					return err
				}
				out, err = renderList(l)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCheckpointsCmd(rt *appEnv) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "checkpoints [PREFIX]",
		Short: "List stored checkpoints",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			tr, err := rt.transport(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := tr.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no checkpoints")
				return nil
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Key, humanize.Bytes(uint64(info.Size)), humanize.Time(info.UpdatedAt)}
			}
			if plain {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tSIZE\tUPDATED")
				for _, row := range rows {
					fmt.Fprintln(w, strings.Join(row, "\t"))
				}
				return w.Flush()
			}
			fmt.Fprintln(cmd.OutOrStdout(), checkpointTable(rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print tab aligned columns without borders")
	return cmd
}

func newDeleteCmd(rt *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := rt.transport(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := tr.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("delete %s: %w", args[0], checkpoint.ErrNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
