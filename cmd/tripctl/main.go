package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	ownerFlag string
	rootCmd   = &cobra.Command{
		Use:   "tripctl",
		Short: "CLI client for the trip service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Trip service base URL")
	rootCmd.PersistentFlags().StringVarP(&ownerFlag, "owner", "u", "", "Owner ID (required)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List itineraries for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			if ownerFlag == "" {
				return fmt.Errorf("--owner required")
			}
			return runList(apiFlag, ownerFlag, status, os.Stdout)
		},
	}
	listCmd.Flags().StringP("status", "s", "", "Filter by status (DRAFT|CONFIRMED|MAIN|ARCHIVED)")
	rootCmd.AddCommand(listCmd)

	showCmd := &cobra.Command{
		Use:   "show <routeId>",
		Short: "Show one itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerFlag == "" {
				return fmt.Errorf("--owner required")
			}
			return runShow(apiFlag, ownerFlag, args[0], os.Stdout)
		},
	}
	rootCmd.AddCommand(showCmd)

	for _, tc := range []struct {
		use, short, status string
	}{
		{"confirm <routeId>", "Confirm a draft itinerary", "CONFIRMED"},
		{"activate <routeId>", "Promote an itinerary to MAIN", "MAIN"},
		{"archive <routeId>", "Archive an itinerary", "ARCHIVED"},
	} {
		status := tc.status
		cmd := &cobra.Command{
			Use:   tc.use,
			Short: tc.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				title, _ := cmd.Flags().GetString("title")
				if ownerFlag == "" {
					return fmt.Errorf("--owner required")
				}
				return runTransition(apiFlag, ownerFlag, args[0], status, title, os.Stdout)
			},
		}
		cmd.Flags().StringP("title", "t", "", "Set the itinerary title in the same update")
		rootCmd.AddCommand(cmd)
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <routeId>",
		Short: "Delete a draft itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ownerFlag == "" {
				return fmt.Errorf("--owner required")
			}
			return runDelete(apiFlag, ownerFlag, args[0])
		},
	}
	rootCmd.AddCommand(deleteCmd)

	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Project the MAIN itinerary onto a date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			if ownerFlag == "" {
				return fmt.Errorf("--owner required")
			}
			return runCalendar(apiFlag, ownerFlag, from, to, os.Stdout)
		},
	}
	calendarCmd.Flags().String("from", "", "Window start, YYYY-MM-DD (required)")
	calendarCmd.Flags().String("to", "", "Window end, YYYY-MM-DD (required)")
	_ = calendarCmd.MarkFlagRequired("from")
	_ = calendarCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(calendarCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
