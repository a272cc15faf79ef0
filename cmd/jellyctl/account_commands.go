package main

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jellyfinapi/myjellyfin"
)

func newAccountCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the linked MyJellyfin account",
	}

	cmd.AddCommand(newAccountSignInCommand(ctx))
	cmd.AddCommand(newAccountLinkCommand(ctx))
	cmd.AddCommand(newAccountResourcesCommand(ctx))
	return cmd
}

func saveAccountToken(ctx *commandContext, account *myjellyfin.Account) error {
	store := ctx.tokenStore()
	state, err := store.Load()
	if err != nil {
		return err
	}
	state.Token = account.Token
	state.Username = account.Username
	if state.ClientIdentifier == "" {
		state.ClientIdentifier = ctx.identity().ClientIdentifier
	}
	return store.Save(state)
}

func newAccountSignInCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in with username and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			client, err := ctx.cloudClient()
			if err != nil {
				return err
			}
			account, err := client.SignIn(cmd.Context(), args[0], string(password))
			if err != nil {
				return err
			}
			if err := saveAccountToken(ctx, account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", account.Username)
			return nil
		},
	}
}

func newAccountLinkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Link this device using a pin code",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cloudClient()
			if err != nil {
				return err
			}

			linkCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
			defer cancel()

			pin, err := client.RequestPin(linkCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open the MyJellyfin link page and enter the code:")
			fmt.Fprintf(out, "\n    %s\n\n", pin.Code)
			fmt.Fprintln(out, "Waiting for authorization... (Ctrl+C to abort)")

			account, err := client.WaitForPin(linkCtx, pin, 2*time.Second)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return errors.New("link timed out; run 'jellyctl account link' again")
				}
				return err
			}
			if err := saveAccountToken(ctx, account); err != nil {
				return err
			}
			fmt.Fprintf(out, "Linked account %s.\n", account.Username)
			return nil
		},
	}
}

func newAccountResourcesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List devices linked to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cloudClient()
			if err != nil {
				return err
			}
			state, err := ctx.tokenStore().Load()
			if err != nil {
				return err
			}
			if state.Token == "" {
				return errors.New("no linked account; run 'jellyctl account link' first")
			}

			account, err := client.Account(cmd.Context(), state.Token)
			if err != nil {
				return err
			}
			resources, err := account.Resources(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resources)
			}

			rows := make([][]string, 0, len(resources))
			for _, resource := range resources {
				rows = append(rows, []string{
					resource.Name,
					resource.Product,
					yesNo(resource.ProvidesServer()),
					yesNo(resource.Owned),
					formatTime(resource.LastSeenAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Product", "Server", "Owned", "Last Seen"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
