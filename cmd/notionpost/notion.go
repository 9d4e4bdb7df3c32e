package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notionpost/internal/generator"
)

var notionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Check or create the Notion content database",
}

var notionDatabase string

var notionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the database is reachable and has the content properties",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.service(nil)
		if err != nil {
			return err
		}
		db, err := svc.CheckDatabase(ctx, a.databaseID(notionDatabase))
		if err != nil {
			return err
		}
		fmt.Printf("✅ Connected to %q (%s)\n", db.Name(), db.ID)
		return nil
	},
}

var (
	createPage  string
	createTitle string
)

var notionCreateDBCmd = &cobra.Command{
	Use:   "create-db",
	Short: "Create a content database under a page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		page := createPage
		if page == "" {
			page = a.cfg.Notion.PageID
		}
		if page == "" {
			return fmt.Errorf("a parent page is required (--page or notion.page_id)")
		}
		svc, err := a.service(nil)
		if err != nil {
			return err
		}
		db, err := svc.CreateDatabase(ctx, page, createTitle)
		if err != nil {
			return err
		}
		fmt.Printf("🎉 Database created: %s\n", db.ID)
		if db.URL != "" {
			fmt.Printf("   %s\n", db.URL)
		}
		fmt.Println("   Save it with: notionpost settings set database_id " + db.ID)
		return nil
	},
}

var notionVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the model API key and the database together",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		gen, genErr := a.generator(ctx)
		svc, err := a.service(gen)
		if err != nil {
			return err
		}

		report := svc.Verify(ctx, a.databaseID(notionDatabase))
		if genErr != nil {
			report.GeneratorErr = genErr
		}
		if report.GeneratorErr != nil {
			fmt.Printf("❌ API key: %v\n", report.GeneratorErr)
		} else {
			fmt.Println("✅ API key works")
		}
		if report.DatabaseErr != nil {
			fmt.Printf("❌ Database: %v\n", report.DatabaseErr)
		} else {
			fmt.Printf("✅ Database %q is ready\n", report.Database.Name())
		}
		if !report.OK() {
			return fmt.Errorf("verification failed")
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the Gemini models that can be selected",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range generator.AvailableModels() {
			marker := "  "
			if m == generator.DefaultGeminiModel {
				marker = "* "
			}
			fmt.Println(marker + m)
		}
	},
}

func init() {
	notionCheckCmd.Flags().StringVar(&notionDatabase, "database", "", "Database ID or URL (defaults to notion.database_id)")
	notionVerifyCmd.Flags().StringVar(&notionDatabase, "database", "", "Database ID or URL (defaults to notion.database_id)")
	notionCreateDBCmd.Flags().StringVar(&createPage, "page", "", "Parent page ID or URL (defaults to notion.page_id)")
	notionCreateDBCmd.Flags().StringVar(&createTitle, "title", "", "Database title")

	notionCmd.AddCommand(notionCheckCmd, notionCreateDBCmd, notionVerifyCmd)
}
