package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage saved filter chains",
	}
	cmd.AddCommand(
		newFavoritesSaveCmd(a),
		newFavoritesListCmd(a),
		newFavoritesShowCmd(a),
		newFavoritesDeleteCmd(a),
	)
	return cmd
}

func newFavoritesSaveCmd(a *app) *cobra.Command {
	var cf chainFlags
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a filter chain under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.chain(cmd.Context(), cf)
			if err != nil {
				return err
			}
			store, err := a.favorites()
			if err != nil {
				return err
			}
			fav, err := store.Save(cmd.Context(), args[0], chain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fav.ID)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&cf.filters, "filter", "f", nil, "filter as kind=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&cf.file, "chain", "", "JSON chain file")
	return cmd
}

func newFavoritesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved filter chains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.favorites()
			if err != nil {
				return err
			}
			favs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTAGES\tSAVED")
			now := time.Now()
			for _, f := range favs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.ID, f.Name, f.Chain.Len(),
					humanize.RelTime(f.Created, now, "ago", "from now"))
			}
			return tw.Flush()
		},
	}
}

func newFavoritesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved chain as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("favorite id: %w", err)
			}
			store, err := a.favorites()
			if err != nil {
				return err
			}
			fav, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(fav.Chain)
		},
	}
}

func newFavoritesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved chain",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("favorite id: %w", err)
			}
			store, err := a.favorites()
			if err != nil {
				return err
			}
			return store.Delete(cmd.Context(), id)
		},
	}
}
