package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notionpost/internal/templates"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage saved content templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := templates.NewManager(a.store).List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("📭 No templates saved.")
			return nil
		}
		for _, t := range list {
			fmt.Printf("📄 %s (%s)\n", t.Name, t.CreatedAt.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := templates.NewManager(a.store).Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Println(t.Content)
		return nil
	},
}

var (
	templateContent string
	templateFile    string
	templateForce   bool
)

var templateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given content as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		content, err := readContent(templateContent, templateFile)
		if err != nil {
			return err
		}
		t, err := templates.NewManager(a.store).Save(ctx, args[0], content, templateForce)
		if err != nil {
			if errors.Is(err, templates.ErrExists) {
				return fmt.Errorf("%s: %w (use --force to overwrite)", args[0], err)
			}
			return err
		}
		fmt.Printf("💾 Template %q saved.\n", t.Name)
		return nil
	},
}

var templateApplyTitle string

var templateApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Print the draft produced by applying a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := templates.NewManager(a.store).Apply(ctx, args[0], templates.Draft{Title: templateApplyTitle})
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("제목: %s\n\n%s\n", d.Title, d.Content)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := templates.NewManager(a.store).Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("🗑️  Template %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	templateSaveCmd.Flags().StringVar(&templateContent, "content", "", "Template content")
	templateSaveCmd.Flags().StringVarP(&templateFile, "file", "f", "", "Read template content from a file (- for stdin)")
	templateSaveCmd.Flags().BoolVar(&templateForce, "force", false, "Overwrite an existing template")
	templateApplyCmd.Flags().StringVarP(&templateApplyTitle, "title", "t", "", "Draft title (defaults to the template name)")

	templateCmd.AddCommand(templateListCmd, templateShowCmd, templateSaveCmd, templateApplyCmd, templateDeleteCmd)
}
