package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"web-a11y/internal/markup"
	"web-a11y/internal/processor"
	"web-a11y/internal/report"
)

type sourceFlags struct {
	url       string
	markdown  bool
	title     string
	userAgent string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "fetch the document from a URL instead of a file")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "treat the input as Markdown (implied by .md files)")
	cmd.Flags().StringVar(&f.title, "title", "", "page title for Markdown input")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "", "browser user agent for the shortcut legend")
}

// request reads the selected input. No argument or "-" means stdin.
func (f *sourceFlags) request(cmd *cobra.Command, args []string) (processor.Request, error) {
	req := processor.Request{
		URL:       f.url,
		Markdown:  f.markdown,
		Title:     f.title,
		UserAgent: f.userAgent,
	}
	if f.url != "" {
		if len(args) > 0 {
			return req, errors.New("--url and a file argument are exclusive")
		}
		req.Markdown = req.Markdown || markup.IsMarkdown(f.url)
		return req, nil
	}

	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
		req.Markdown = req.Markdown || markup.IsMarkdown(args[0])
	}
	if err != nil {
		return req, fmt.Errorf("read input: %w", err)
	}
	req.Source = data
	return req, nil
}

func newProcessCommand(opts *options) *cobra.Command {
	var (
		src    sourceFlags
		diff   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Add navigation aids to a document",
		Long: `Process a document and write the result.

Examples:
  web-a11y process page.html > page.a11y.html
  web-a11y process --diff page.html
  cat README.md | web-a11y process --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := src.request(cmd, args)
			if err != nil {
				return err
			}
			out, err := processor.ProcessPage(cmd.Context(), opts.logger, opts.cfg, req)
			if err != nil {
				return err
			}

			result := out.HTML
			if diff {
				result = []byte(out.Diff)
			}
			if output != "" {
				return os.WriteFile(output, result, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(result)
			return err
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff instead of the document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newOutlineCommand(opts *options) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Print the heading outline of a document",
		Long: `Print the heading outline the engine builds for a document.
Invalid heading structures print "(no outline)".

Example:
  web-a11y outline page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := src.request(cmd, args)
			if err != nil {
				return err
			}
			out, err := processor.ProcessPage(cmd.Context(), opts.logger, opts.cfg, req)
			if err != nil {
				return err
			}
			return report.WriteOutline(cmd.OutOrStdout(), out.Result.Outline)
		},
	}

	src.register(cmd)
	return cmd
}
