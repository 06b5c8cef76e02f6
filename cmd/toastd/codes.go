package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/toastkit/internal/errors"
)

func codesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes [code]",
		Short: "List error codes",
		Long: `List the error codes returned by the toastd API.

With a code argument, print the full explanation for that code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return explainCode(strings.ToUpper(args[0]))
			}
			for _, code := range errors.GetAllCodes() {
				t, _ := errors.GetTemplate(code)
				fmt.Printf("  %s  %-3d  %-12s %s\n", code, t.Status, t.Category, t.Message)
			}
			return nil
		},
	}
	return cmd
}

func explainCode(code string) error {
	if _, ok := errors.GetTemplate(code); !ok {
		return fmt.Errorf("unknown error code %q", code)
	}
	fmt.Print(errors.New(code).Format())
	return nil
}
