package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/employee"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register or update an employee from a free-text self-introduction",
	Run: func(cmd *cobra.Command, _ []string) {
		register(cmd)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringP("name", "n", "", "employee name, used as the unique record key")
	registerCmd.Flags().StringP("description", "m", "", "self-introduction, skills and work history in free text")
	registerCmd.Flags().StringP("file", "f", "", "read the self-introduction from a .txt, .md, .pdf or .docx file")
}

func register(cmd *cobra.Command) {
	ctx := cmd.Context()

	a := mustBootstrap(ctx)
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		text, err := document.ReadFile(file)
		if err != nil {
			a.fail("reading self-introduction", err)
			return
		}
		description = text
	}

	res, err := a.registration.Register(ctx, name, description)
	if err != nil {
		a.fail("registration failed", err, zap.String("hint", hintFor(err)))
		return
	}

	printRegistration(cmd.OutOrStdout(), res)
}

func hintFor(err error) string {
	var storeErr *employee.StoreError
	switch {
	case errors.Is(err, employee.ErrMissingInput):
		return "both --name and --description (or --file) are required"
	case errors.Is(err, employee.ErrInvalidName):
		return "names must not contain '/', be '.' or '..', or look like __name__"
	case errors.As(err, &storeErr):
		return "the record store is unreachable or rejected the write; nothing was saved"
	default:
		return ""
	}
}
