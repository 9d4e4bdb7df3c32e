package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"notionpost/internal/formatter"
	"notionpost/internal/notion"
	"notionpost/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change the stored settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.settings.Load(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("token:          %s\n", mask(s.Token))
		fmt.Printf("database_id:    %s\n", s.DatabaseID)
		fmt.Printf("format:         %s\n", s.Format)
		fmt.Printf("category:       %s\n", s.Category)
		fmt.Printf("tags:           %s\n", strings.Join(s.Tags, ", "))
		fmt.Printf("gemini_api_key: %s\n", mask(s.GeminiAPIKey))
		fmt.Printf("autoSave:       %t\n", s.AutoSave)
		fmt.Printf("autoPreview:    %t\n", s.AutoPreview)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one stored setting",
	Long: `Keys: token, database_id, format, category, tags, gemini_api_key,
autoSave, autoPreview. database_id also accepts a database URL.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.settings.Load(ctx)
		if err != nil {
			return err
		}
		if err := setField(&s, args[0], args[1]); err != nil {
			return err
		}
		if err := a.settings.Save(ctx, s); err != nil {
			return err
		}
		fmt.Printf("✅ %s updated.\n", args[0])
		return nil
	},
}

func setField(s *settings.Settings, key, value string) error {
	switch key {
	case "token":
		s.Token = strings.TrimSpace(value)
	case "database_id":
		s.DatabaseID = notion.ExtractID(strings.TrimSpace(value))
	case "format":
		s.Format = string(formatter.ParseFormat(value))
	case "category":
		s.Category = strings.TrimSpace(value)
	case "tags":
		s.Tags = notion.ParseTags(value)
	case "gemini_api_key":
		s.GeminiAPIKey = strings.TrimSpace(value)
	case "autoSave", "autoPreview":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		if key == "autoSave" {
			s.AutoSave = b
		} else {
			s.AutoPreview = b
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.settings.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("♻️  Settings reset to defaults.")
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write settings, templates and history as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		b, err := a.settings.Export(ctx)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := settings.WriteBundle(w, b); err != nil {
			return err
		}
		if w != os.Stdout {
			fmt.Printf("📦 Exported %d templates and %d history entries to %s\n", len(b.Templates), len(b.History), args[0])
		}
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a bundle written by export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		b, err := settings.ReadBundle(r)
		if err != nil {
			return err
		}
		if err := a.settings.Import(ctx, b); err != nil {
			return err
		}
		fmt.Println("📥 Import complete.")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd, settingsExportCmd, settingsImportCmd)
}
