// Package main provides planctl, a command line client that runs the travel plan
// pipeline in-process and prints each stage as it happens.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"wanderplan/config"
	"wanderplan/models"
	"wanderplan/services/planner"
	"wanderplan/utils"
)

const appName = "planctl"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// tripFlags mirrors the form fields of the HTTP API.
type tripFlags struct {
	origin      string
	depart      string
	ret         string
	duration    int
	hotelBudget float64
	purpose     string
	budget      string
}

func (f tripFlags) request() models.TravelRequest {
	return models.TravelRequest{
		Origin:        f.origin,
		DepartureDate: f.depart,
		ReturnDate:    f.ret,
		Duration:      f.duration,
		HotelBudget:   models.Money(f.hotelBudget),
		Purpose:       models.Purpose(f.purpose),
		Budget:        models.BudgetTier(f.budget),
	}
}

func (f *tripFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.origin, "origin", "", "Departure city (defaults to FLIGHT_ORIGIN)")
	cmd.Flags().StringVar(&f.depart, "depart", "", "Departure date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.ret, "return", "", "Return date, YYYY-MM-DD")
	cmd.Flags().IntVar(&f.duration, "days", 0, "Trip length in days")
	cmd.Flags().Float64Var(&f.hotelBudget, "hotel-budget", 0, "Hotel budget per night")
	cmd.Flags().StringVar(&f.purpose, "purpose", "", "business, leisure or mixed")
	cmd.Flags().StringVar(&f.budget, "budget", "", "budget, mid-range or luxury")
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Generate travel plans from a free-text request",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			config.AppConfig.LogLevel = logLevel
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(planCmd(), parseCmd())
	return cmd
}

func planCmd() *cobra.Command {
	var (
		flags tripFlags
		quiet bool
	)
	cmd := &cobra.Command{
		Use:   `plan "<request>"`,
		Short: "Run the full pipeline and print the plan as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orch, cleanup, err := planner.NewOrchestratorFromConfig(ctx, config.AppConfig, utils.GetLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			progress := cmd.ErrOrStderr()
			if quiet {
				progress = io.Discard
			}
			plan, err := orch.Run(ctx, strings.Join(args, " "), flags.request(), printEvent(progress))
			if err != nil {
				return describe(err)
			}
			return writeJSON(cmd.OutOrStdout(), plan)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print stage transitions")
	return cmd
}

func parseCmd() *cobra.Command {
	var flags tripFlags
	cmd := &cobra.Command{
		Use:   `parse "<request>"`,
		Short: "Extract and merge the structured request only",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orch, cleanup, err := planner.NewOrchestratorFromConfig(ctx, config.AppConfig, utils.GetLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			req, err := orch.ParseRequest(ctx, strings.Join(args, " "), flags.request())
			if err != nil {
				return describe(err)
			}
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}
	flags.register(cmd)
	return cmd
}

// printEvent renders transitions as "[stage] state" lines, skipping the initial pending ones.
func printEvent(w io.Writer) planner.Observer {
	return func(ev models.StageEvent) {
		if ev.State == models.StatePending {
			return
		}
		line := fmt.Sprintf("[%s] %s", ev.Stage, ev.State)
		switch p := ev.Payload.(type) {
		case *models.TravelRequest:
			line += fmt.Sprintf(": %s (%s), %d days", p.Destination, p.DestinationCode, p.Duration)
		case *models.FlightOutcome:
			if best := p.Best(); best != nil {
				line += fmt.Sprintf(": %d offers, best %.2f", len(p.Offers), float64(best.Price))
			}
			if !p.Live {
				line += " (estimate)"
			}
		}
		if ev.Error != "" {
			line += ": " + ev.Error
		}
		fmt.Fprintln(w, line)
	}
}

func describe(err error) error {
	var inputErr *planner.InputError
	if errors.As(err, &inputErr) {
		return fmt.Errorf("%s (field %q)", inputErr.Message, inputErr.Field)
	}
	return fmt.Errorf("could not generate your plan: %w", err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
