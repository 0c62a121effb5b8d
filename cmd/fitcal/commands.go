package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cecil-the-coder/fitness-provider-kit/pkg/auth"
)

func newAuthCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider authorization",
	}

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the consent URL to open in a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := uuid.NewString()
			consentURL := auth.AuthCodeURL(auth.FlowConfig{
				ClientID:    (*a).cfg.Strava.ClientID,
				RedirectURL: (*a).cfg.Strava.RedirectURL,
			}, state)
			fmt.Fprintln(cmd.OutOrStdout(), consentURL)
			return nil
		},
	}

	exchangeCmd := &cobra.Command{
		Use:   "exchange <code-or-callback-url>",
		Short: "Exchange an authorization code for tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			if parsed, err := auth.ParseCallback(code); err == nil {
				code = parsed
			}
			if err := (*a).tokens.ExchangeAuthorizationCode(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Authorized.")
			return nil
		},
	}

	scopeCmd := &cobra.Command{
		Use:   "scope",
		Short: "Check whether the stored token can read activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (*a).strava.CheckTokenScope(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Token has activity read scope.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Token is missing activity read scope; re-authorize.")
			}
			return nil
		},
	}

	cmd.AddCommand(urlCmd, exchangeCmd, scopeCmd)
	return cmd
}

func newDatesCmd(a **app) *cobra.Command {
	var from, to, provider string

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Print calendar dates with workouts in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch provider {
			case "strava":
				dates, err := (*a).strava.GetRunningDates(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				printDates(cmd, "run", dates)
			case "hevy":
				dates, err := (*a).hevy.GetWorkoutDates(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				printDates(cmd, "gym", dates)
			case "all":
				runDates, err := (*a).strava.GetRunningDates(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				printDates(cmd, "run", runDates)
				if (*a).hevy.IsConfigured() {
					gymDates, err := (*a).hevy.GetWorkoutDates(cmd.Context(), from, to)
					if err != nil {
						return err
					}
					printDates(cmd, "gym", gymDates)
				}
			default:
				return fmt.Errorf("unknown provider %q (want strava, hevy, or all)", provider)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "window end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&provider, "provider", "all", "strava, hevy, or all")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func printDates(cmd *cobra.Command, kind string, dates []string) {
	for _, date := range dates {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", date, kind)
	}
}

func newUsageCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show provider API quota usage observed this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, ok := (*a).strava.CheckAPIUsage()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No usage information observed yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requests used: %d/%d\n", usage.Used, usage.Limit)
			if !usage.LastRateLimitTime.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Last rate limited at: %s\n", usage.LastRateLimitTime.Format("15:04:05"))
			}
			return nil
		},
	}
}

func newRefreshCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Drop caches so the next read fetches fresh data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).strava.ForceRefresh(); err != nil {
				return err
			}
			if (*a).hevy.IsConfigured() {
				if err := (*a).hevy.ForceRefresh(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Caches refreshed.")
			return nil
		},
	}
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored tokens and cached activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).strava.ClearAllTokens(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
