package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"notionpost/internal/formatter"
	"notionpost/internal/generator"
	"notionpost/internal/notion"
	"notionpost/internal/preview"
	"notionpost/internal/publisher"
	"notionpost/internal/templates"
)

// draftFlags are shared by generate, post and preview.
type draftFlags struct {
	title    string
	content  string
	file     string
	format   string
	template string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Post title")
	cmd.Flags().StringVar(&f.content, "content", "", "Post content")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read content from a file (- for stdin)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: "+formatList())
	cmd.Flags().StringVar(&f.template, "template", "", "Apply a saved template to the draft")
}

func (f *draftFlags) draft(ctx context.Context, a *app) (templates.Draft, error) {
	content, err := readContent(f.content, f.file)
	if err != nil {
		return templates.Draft{}, err
	}
	d := templates.Draft{Title: f.title, Content: content}
	if f.template != "" {
		d, err = templates.NewManager(a.store).Apply(ctx, f.template, d)
		if err != nil {
			return templates.Draft{}, err
		}
	}
	return d, nil
}

func formatList() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

var genFlags draftFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate content for a title and draft with the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := genFlags.draft(ctx, a)
		if err != nil {
			return err
		}
		gen, err := a.generator(ctx)
		if err != nil {
			return fmt.Errorf("failed to create generator: %w", err)
		}
		svc, err := a.service(gen)
		if err != nil {
			return err
		}

		format := a.format(genFlags.format)
		fmt.Fprintf(os.Stderr, "🤖 Generating %s content for %q...\n", format, d.Title)
		text, err := svc.Generate(ctx, publisher.GenerateRequest{Title: d.Title, Content: d.Content, Format: format})
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var (
	postFlags    draftFlags
	postDatabase string
	postCategory string
	postTags     string
	postGenerate bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish a draft as a page in the Notion database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := postFlags.draft(ctx, a)
		if err != nil {
			return err
		}
		var gen generator.Generator
		if postGenerate {
			if gen, err = a.generator(ctx); err != nil {
				return fmt.Errorf("failed to create generator: %w", err)
			}
		}
		svc, err := a.service(gen)
		if err != nil {
			return err
		}

		format := a.format(postFlags.format)
		if postGenerate {
			fmt.Fprintf(os.Stderr, "🤖 Generating %s content...\n", format)
			d.Content, err = svc.Generate(ctx, publisher.GenerateRequest{Title: d.Title, Content: d.Content, Format: format})
			if err != nil {
				return err
			}
		}

		category := postCategory
		if category == "" {
			category = a.cfg.Defaults.Category
		}
		tags := a.cfg.Defaults.Tags
		if postTags != "" {
			tags = notion.ParseTags(postTags)
		}

		fmt.Fprintln(os.Stderr, "📤 Posting to Notion...")
		res, err := svc.Post(ctx, publisher.PostRequest{
			DatabaseID: a.databaseID(postDatabase),
			Title:      d.Title,
			Content:    d.Content,
			Format:     format,
			Category:   category,
			Tags:       tags,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✅ Page created with %d blocks: %s\n", res.Blocks, res.Page.URL)
		return nil
	},
}

var (
	previewFlags draftFlags
	previewHTML  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the blocks a draft would be posted as",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := previewFlags.draft(ctx, a)
		if err != nil {
			return err
		}
		p, err := preview.Build(d.Title, d.Content, a.format(previewFlags.format))
		if err != nil {
			return err
		}
		if previewHTML {
			fmt.Print(p.HTML)
			return nil
		}
		fmt.Printf("👀 %s (%s, %d blocks)\n\n", p.Title, p.Format, len(p.Blocks))
		fmt.Print(preview.Text(p.Blocks))
		return nil
	},
}

func init() {
	genFlags.register(generateCmd)

	postFlags.register(postCmd)
	postCmd.Flags().StringVar(&postDatabase, "database", "", "Database ID or URL (defaults to notion.database_id)")
	postCmd.Flags().StringVar(&postCategory, "category", "", "Category select value")
	postCmd.Flags().StringVar(&postTags, "tags", "", "Comma separated tags")
	postCmd.Flags().BoolVarP(&postGenerate, "generate", "g", false, "Generate the content with the model before posting")

	previewFlags.register(previewCmd)
	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Print the content rendered as HTML")
}
