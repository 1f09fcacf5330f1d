package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gayathriimasha/smart-campus-mis/internal/dto"
	"github.com/gayathriimasha/smart-campus-mis/internal/pdf"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
	"github.com/gayathriimasha/smart-campus-mis/internal/service"
	"github.com/gayathriimasha/smart-campus-mis/internal/session"
	"github.com/gayathriimasha/smart-campus-mis/internal/source"
)

type options struct {
	upstream   string
	token      string
	kind       string
	start      string
	end        string
	timeout    time.Duration
	title      string
	dateLayout string
	out        string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Build campus reports from the records API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.upstream, "upstream", os.Getenv("CAMPUS_REPORT_UPSTREAM_URL"), "records API base url")
	flags.StringVar(&opts.token, "token", os.Getenv("CAMPUS_TOKEN"), "bearer credential")
	flags.StringVar(&opts.kind, "kind", string(report.KindRegistrations), "report kind (registrations, announcements)")
	flags.StringVar(&opts.start, "start", "", "start date (YYYY-MM-DD)")
	flags.StringVar(&opts.end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "upstream request timeout")
	flags.StringVar(&opts.dateLayout, "date-layout", report.DefaultDateLayout, "layout for table dates")
	flags.BoolVar(&opts.verbose, "verbose", false, "log fetch diagnostics to stderr")

	rootCmd.AddCommand(newSummaryCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print chart series and totals for a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, kind, window, err := opts.prepare()
			if err != nil {
				return err
			}
			view, err := svc.Build(cmd.Context(), kind, window, opts.token)
			if err != nil {
				return err
			}
			if view.Notice != "" {
				return errors.New(view.Notice)
			}
			return writeSummary(cmd.OutOrStdout(), view)
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a report as a PDF document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, kind, window, err := opts.prepare()
			if err != nil {
				return err
			}
			doc, ok, err := svc.ExportOnce(cmd.Context(), kind, window, opts.token)
			if err != nil {
				if source.IsAuthError(err) {
					return errors.New(service.NoticeFor(err))
				}
				return err
			}
			if !ok {
				return fmt.Errorf("no report selected")
			}

			var buf bytes.Buffer
			if err := pdf.Render(doc, &buf, pdf.Options{}); err != nil {
				return err
			}
			if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", opts.out, len(doc.Table.Rows))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", pdf.FileName, "output file")
	cmd.Flags().StringVar(&opts.title, "title", report.DefaultTitle, "document title")
	return cmd
}

func (o *options) prepare() (service.ReportService, report.Kind, report.DateWindow, error) {
	if o.upstream == "" {
		return nil, report.KindNone, report.DateWindow{}, fmt.Errorf("--upstream or CAMPUS_REPORT_UPSTREAM_URL is required")
	}
	kind := report.ParseKind(o.kind)
	if !kind.Valid() {
		return nil, report.KindNone, report.DateWindow{}, fmt.Errorf("unknown report kind %q", o.kind)
	}
	window, err := dto.ReportWindowRequest{Start: o.start, End: o.end}.Window()
	if err != nil {
		return nil, report.KindNone, report.DateWindow{}, err
	}

	logger := zerolog.Nop()
	if o.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	fetcher := source.NewRemote(o.upstream, o.timeout, logger)
	svc := service.NewReportService(fetcher, session.NewMemoryStore(0), nil, service.ReportOptions{
		Title:      o.title,
		DateLayout: o.dateLayout,
	}, logger)
	return svc, kind, window, nil
}

// writeSummary prints one row per label with a column per dataset.
func writeSummary(w io.Writer, view dto.ReportViewResponse) error {
	headers := []string{"Label"}
	rightAlign := map[int]bool{}
	for i, dataset := range view.Chart.Datasets {
		headers = append(headers, dataset.Label)
		rightAlign[i+1] = true
	}

	rows := make([][]string, 0, len(view.Chart.Labels))
	for i, label := range view.Chart.Labels {
		row := []string{label}
		for _, dataset := range view.Chart.Datasets {
			row = append(row, strconv.Itoa(dataset.Values[i]))
		}
		rows = append(rows, row)
	}

	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s: %d records\n", view.Kind, view.Total)
	return err
}
