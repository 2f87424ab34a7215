package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	PromptRegister = "Register employee"
	PromptSearch   = "Search employees"
	PromptExit     = "Exit"
)

var errRequired = errors.New("this field is required")

var menu = promptui.Select{
	Label: "Menu",
	Items: []string{PromptRegister, PromptSearch, PromptExit},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Switch between the registration and search screens in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		interactive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func interactive(cmd *cobra.Command) {
	ctx := cmd.Context()

	a := mustBootstrap(ctx)
	defer a.Close()

	out := cmd.OutOrStdout()
	for {
		_, action, err := menu.Run()
		if err != nil {
			if isInterrupt(err) {
				return
			}
			a.fail("reading menu selection", err)
			return
		}

		switch action {
		case PromptRegister:
			name, err := ask("Employee name (unique id)")
			if err != nil {
				if isInterrupt(err) {
					continue
				}
				a.fail("reading name", err)
				return
			}
			description, err := ask("Self-introduction, skills and work history")
			if err != nil {
				if isInterrupt(err) {
					continue
				}
				a.fail("reading description", err)
				return
			}

			res, err := a.registration.Register(ctx, name, description)
			if err != nil {
				fmt.Fprintf(out, "Registration failed: %v\n", err)
				if hint := hintFor(err); hint != "" {
					fmt.Fprintf(out, "Hint: %s\n", hint)
				}
				continue
			}
			printRegistration(out, res)
		case PromptSearch:
			query, err := ask("Describe the person you are looking for")
			if err != nil {
				if isInterrupt(err) {
					continue
				}
				a.fail("reading query", err)
				return
			}

			res, err := a.search.Search(ctx, query)
			if err != nil {
				fmt.Fprintf(out, "Search failed: %v\n", err)
				continue
			}
			printSearch(out, res)
		case PromptExit:
			return
		}
		fmt.Fprintln(out)
	}
}

func ask(label string) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: required,
	}
	return p.Run()
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errRequired
	}
	return nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}
