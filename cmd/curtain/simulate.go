package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/curtain/internal/presentation/graph"
	"github.com/aretw0/curtain/internal/presentation/tui"
	"github.com/aretw0/curtain/internal/site"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate PATH...",
	Short: "Walk the simulated site through a list of paths",
	Long: `Navigates to each path in turn, printing every status change and the page
displayed after each transition. With --gap the next navigation starts after
the gap even if the previous transition is still running, which shows how
overlapping navigations are queued.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("preserve-styles") {
			cfg.PreserveStyles, _ = cmd.Flags().GetBool("preserve-styles")
		}
		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		gap, _ := cmd.Flags().GetDuration("gap")

		out := cmd.OutOrStdout()
		render := tui.PlainRenderer
		if f, ok := out.(*os.File); ok {
			render = tui.NewRenderer(f, plain)
			if !noBanner && tui.IsTerminal(f) {
				tui.PrintBanner(out)
			}
		}
		printer := tui.NewStatusPrinter(out)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := site.New(ctx, cfg, site.WithLogger(logger), site.WithHooks(domain.LifecycleHooks{
			OnStatusChange: func(_ context.Context, e *domain.StatusEvent) {
				printer.Status(e.To)
			},
			OnTransitionStart: func(_ context.Context, e *domain.TransitionEvent) {
				printer.Event("%s -> %s: %d exit animation(s)", e.From, e.To, e.Registrations)
			},
			OnTransitionEnd: func(_ context.Context, e *domain.TransitionEvent) {
				printer.Event("%s -> %s: swapped after %s", e.From, e.To, e.Duration.Round(time.Millisecond))
			},
			OnTransitionFault: func(_ context.Context, e *domain.TransitionEvent) {
				printer.Event("%s -> %s: stalled: %v", e.From, e.To, e.Err)
			},
		}))
		if err != nil {
			return err
		}
		defer s.Close()

		if err := showPage(out, render, s.Displayed()); err != nil {
			return err
		}

		for i, path := range args {
			cycle, err := s.Navigate(ctx, path)
			if err != nil {
				return err
			}
			if gap > 0 && i < len(args)-1 {
				select {
				case <-time.After(gap):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if err := cycle.Wait(ctx); err != nil {
				return err
			}
			if err := s.Wait(ctx); err != nil {
				return err
			}
			if err := showPage(out, render, s.Displayed()); err != nil {
				return err
			}
		}

		if mermaid {
			entries, err := s.Journal().Recent(ctx, 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, graph.GenerateMermaid(s.Paths(), entries, &graph.Overlay{Current: s.Displayed().Path}))
		}
		return nil
	},
}

func showPage(w io.Writer, render tui.Renderer, p *site.Page) error {
	if p == nil {
		return errors.New("no page displayed")
	}
	body, err := render(p.Markdown)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", p.Path, err)
	}
	fmt.Fprintf(w, "\n--- %s (%s) ---\n%s\n", p.Title, p.Path, body)
	return nil
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("plain", false, "Print page markdown without rendering")
	simulateCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	simulateCmd.Flags().Bool("mermaid", false, "Print a Mermaid graph of the navigations at the end")
	simulateCmd.Flags().Bool("preserve-styles", false, "Preserve outgoing styles during transitions (overrides preserve_styles)")
	simulateCmd.Flags().Duration("gap", 0, "Start the next navigation after this delay instead of waiting for the transition")
}
