package main

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/spf13/cobra"
)

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "%s takes no arguments, got %q", cmd.CommandPath(), args[0])
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return httperror.NewHTTPErrorf(http.StatusBadRequest, "%s expects %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}
