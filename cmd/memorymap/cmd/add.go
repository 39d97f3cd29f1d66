package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add memories",
	}
	cmd.AddCommand(
		newAddTextCmd(),
		newAddImageCmd(),
		newAddPDFCmd(),
		newAddURLCmd(),
		newAddFeedCmd(),
	)
	return cmd
}

func newAddTextCmd() *cobra.Command {
	params := &struct {
		Title string
		Tags  string
	}{}

	cmd := &cobra.Command{
		Use:   "text <text>",
		Short: "Save a text memory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			metadata := map[string]any{}
			if params.Title != "" {
				metadata["title"] = params.Title
			}
			if params.Tags != "" {
				metadata["tags"] = params.Tags
			}

			id, err := m.SaveText(cmd.Context(), strings.Join(args, " "), metadata)
			if err != nil {
				return err
			}

			fmt.Printf("Saved text memory %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "memory title")
	cmd.Flags().StringVar(&params.Tags, "tags", "", "comma-separated tags")

	return cmd
}

func newAddImageCmd() *cobra.Command {
	params := &struct {
		Description string
	}{}

	cmd := &cobra.Command{
		Use:   "image <image-file>",
		Short: "Save an image memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			metadata := map[string]any{}
			if params.Description != "" {
				metadata["description"] = params.Description
			}

			id, err := m.SaveImage(cmd.Context(), args[0], metadata)
			if err != nil {
				return err
			}

			fmt.Printf("Saved image memory %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Description, "description", "", "what the image shows")

	return cmd
}

func newAddPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <pdf-file>",
		Short: "Save each page of a PDF as a text memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", args[0])
			}
			defer file.Close()

			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			id, err := m.SavePDF(cmd.Context(), args[0], file, nil)
			if err != nil {
				return err
			}

			fmt.Printf("Saved PDF memory %s\n", id)
			return nil
		},
	}
}

func newAddURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Scrape a web page and save it as a text memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			id, err := m.SaveURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Saved URL memory %s\n", id)
			return nil
		},
	}
}

func newAddFeedCmd() *cobra.Command {
	params := &struct {
		Limit int
	}{}

	cmd := &cobra.Command{
		Use:   "feed <feed-url>",
		Short: "Import RSS/Atom feed entries as dated text memories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			count, err := m.ImportFeed(cmd.Context(), args[0], params.Limit)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d feed entries\n", count)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Limit, "limit", 20, "maximum entries to import")

	return cmd
}
