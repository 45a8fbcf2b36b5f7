package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deppfellow/pantry/internal/lib/email"
	"github.com/spf13/cobra"
)

var previewOut string

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview [template]",
	Short: "Render an email template with sample data",
	Long: `Render an embedded email template with its sample data, to stdout or to a file.

Examples:
  pantry email-preview welcome
  pantry email-preview welcome --out tmp/welcome.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := email.Preview(email.Template(args[0]))
		if err != nil {
			return err
		}

		if previewOut == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		}

		if err := os.MkdirAll(filepath.Dir(previewOut), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return os.WriteFile(previewOut, []byte(html), 0o644)
	},
}

func init() {
	emailPreviewCmd.Flags().StringVar(&previewOut, "out", "", "Write the rendered HTML to this file")
	rootCmd.AddCommand(emailPreviewCmd)
}
