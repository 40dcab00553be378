package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbknowledge/dbchat/render"
)

func newRenderCmd() *cobra.Command {
	var (
		role   string
		format string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a chat message as HTML or terminal text",
		Long: "Render reads a message from a file or standard input and prints it the way\n" +
			"the chat UI would display it. Assistant messages that contain tags are\n" +
			"sanitized; everything else is segmented into text and code blocks.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			content, err := readSource(cmd.InOrStdin(), src)
			if err != nil {
				return err
			}
			return renderMessage(cmd.OutOrStdout(), render.ParseRole(role), content, format, width)
		},
	}

	cmd.Flags().StringVar(&role, "role", "assistant", "message author: assistant or user")
	cmd.Flags().StringVar(&format, "format", "term", "output format: html or term")
	cmd.Flags().IntVar(&width, "width", 80, "terminal width for --format term")
	return cmd
}

func readSource(stdin io.Reader, src string) (string, error) {
	if src == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	return string(b), nil
}

func renderMessage(w io.Writer, role render.Role, content, format string, width int) error {
	switch format {
	case "html":
		_, err := fmt.Fprintln(w, render.HTML(role, content))
		return err
	case "term":
		_, err := fmt.Fprintln(w, render.Terminal(role, content, width))
		return err
	default:
		return fmt.Errorf("unknown format %q (want html or term)", format)
	}
}
