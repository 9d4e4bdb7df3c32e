package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notionpost/internal/history"
	"notionpost/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse generated and posted content",
}

func printEntries(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println("📭 No history entries.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.Timestamp, e.Label())
	}
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := history.NewStore(a.store).List(ctx)
		if err != nil {
			return err
		}
		printEntries(entries)
		return nil
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find entries whose title or content contains term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := history.NewStore(a.store).Search(ctx, args[0])
		if err != nil {
			return err
		}
		printEntries(entries)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id|timestamp>",
	Short: "Print one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := history.NewStore(a.store).Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Println(e.Preview())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id|timestamp>",
	Short: "Delete one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := history.NewStore(a.store).Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Println("🗑️  Entry deleted.")
		return nil
	},
}

var historyLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the most recently created Notion pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		links, err := history.NewLinks(a.store).List(ctx)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			fmt.Println("📭 No pages posted yet.")
			return nil
		}
		for _, l := range links {
			fmt.Printf("🔗 %s  %s\n   %s\n", l.Timestamp.Local().Format("2006-01-02 15:04"), l.Title, l.URL)
		}
		return nil
	},
}

var (
	autosavePrune  int
	autosaveLatest bool
)

var historyAutosavesCmd = &cobra.Command{
	Use:   "autosaves",
	Short: "List autosave snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		as := history.NewAutosave(a.store)
		if autosaveLatest {
			snap, err := as.Latest(ctx)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "📭 No autosaves.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "제목: %s\n\n%s\n", snap.Title, snap.Content)
			return nil
		}
		if cmd.Flags().Changed("prune") {
			removed, err := as.Prune(ctx, autosavePrune)
			if err != nil {
				return err
			}
			fmt.Printf("🧹 Removed %d snapshots.\n", removed)
		}

		snaps, err := as.List(ctx)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("📭 No autosaves.")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s (%d chars)\n", s.Timestamp, s.Title, len([]rune(s.Content)))
		}
		return nil
	},
}

func init() {
	historyAutosavesCmd.Flags().IntVar(&autosavePrune, "prune", 0, "Keep only the newest N snapshots")
	historyAutosavesCmd.Flags().BoolVar(&autosaveLatest, "latest", false, "Print the newest snapshot as a draft")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyShowCmd, historyDeleteCmd, historyLinksCmd, historyAutosavesCmd)
}
