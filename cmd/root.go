package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:          "quill",
	Short:        "Book authoring service with AI drafting and KDP export",
	Long:         "Quill stores books, chapters and covers, drafts content with AI models and exports manuscripts as EPUB, PDF and DOCX.",
	SilenceUsage: true,
}
