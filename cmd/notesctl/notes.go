package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"thinkboard/model"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			notes, err := a.client().ListNotes(ctx)
			if err != nil {
				return a.failure("Failed to load notes.", err)
			}

			if asJSON {
				return writeJSON(a, notes)
			}

			if len(notes) == 0 {
				fmt.Fprintln(a.out, "No notes yet. Create one with: notesctl create --title <title> --content <content>")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPREVIEW\tCREATED")
			for _, n := range notes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, preview(n.Content, 40), n.CreatedAt.Local().Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
				return errors.New("All fields are required.")
			}

			ctx, cancel := a.context()
			defer cancel()

			note, err := a.client().CreateNote(ctx, title, content)
			if err != nil {
				return a.failure("Failed to create note.", err)
			}
			fmt.Fprintf(a.out, "Note created: %s\n", note.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Note content")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			note, err := a.client().GetNote(ctx, args[0])
			if err != nil {
				return a.failure("Failed to fetch note.", err)
			}

			if asJSON {
				return writeJSON(a, note)
			}
			printNote(a, note)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the title and content of a note",
		Long:  "edit fetches the note first; flags that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			c := a.client()
			current, err := c.GetNote(ctx, args[0])
			if err != nil {
				return a.failure("Failed to fetch note.", err)
			}

			if !cmd.Flags().Changed("title") {
				title = current.Title
			}
			if !cmd.Flags().Changed("content") {
				content = current.Content
			}
			if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
				return errors.New("Please add a title and content.")
			}

			note, err := c.UpdateNote(ctx, args[0], title, content)
			if err != nil {
				return a.failure("Failed to update note.", err)
			}
			fmt.Fprintf(a.out, "Note updated: %s\n", note.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New content")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			note, err := a.client().DeleteNote(ctx, args[0])
			if err != nil {
				return a.failure("Failed to delete note.", err)
			}
			fmt.Fprintf(a.out, "Note deleted: %s (%s)\n", note.ID, note.Title)
			return nil
		},
	}
}

func printNote(a *app, n *model.Note) {
	fmt.Fprintln(a.out, n.Title)
	fmt.Fprintln(a.out, strings.Repeat("=", len([]rune(n.Title))))
	fmt.Fprintln(a.out, n.Content)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "id:      %s\n", n.ID)
	fmt.Fprintf(a.out, "created: %s\n", n.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "updated: %s\n", n.UpdatedAt.Local().Format(time.RFC1123))
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSON(a *app, v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
