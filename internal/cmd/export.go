package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
	"github.com/rapidpro/rapidpro-cli/internal/sink"
	"github.com/rapidpro/rapidpro-cli/internal/store"
)

const defaultExportDB = "rapidpro-export.db"

// exportFunc walks one listing from cursor, passing each serialized batch and
// the cursor of the following page to emit.
type exportFunc func(ctx context.Context, retry bool, cursor string, emit func(batch []sink.Record, next string) error) error

func exportSource[T any](query func(*v2.Client) *api.Query[T], schema *api.Schema[T]) func(*v2.Client) exportFunc {
	return func(c *v2.Client) exportFunc {
		return func(ctx context.Context, retry bool, cursor string, emit func([]sink.Record, string) error) error {
			it := query(c).IterFetches(retry, cursor)
			for batch, err := range it.Batches(ctx) {
				if err != nil {
					return err
				}
				records := make([]sink.Record, 0, len(batch))
				for _, item := range batch {
					m, err := schema.Serialize(item)
					if err != nil {
						return err
					}
					records = append(records, m)
				}
				next, _ := it.Cursor()
				if err := emit(records, next); err != nil {
					return err
				}
			}
			return nil
		}
	}
}

var exportResources = map[string]func(*v2.Client) exportFunc{
	"archives": exportSource(func(c *v2.Client) *api.Query[v2.Archive] { return c.Archives(v2.ArchiveFilter{}) }, v2.ArchiveSchema),
	"broadcasts": exportSource(func(c *v2.Client) *api.Query[v2.Broadcast] {
		return c.Broadcasts(v2.BroadcastFilter{})
	}, v2.BroadcastSchema),
	"campaigns": exportSource(func(c *v2.Client) *api.Query[v2.Campaign] { return c.Campaigns("") }, v2.CampaignSchema),
	"campaign_events": exportSource(func(c *v2.Client) *api.Query[v2.CampaignEvent] {
		return c.CampaignEvents("", nil)
	}, v2.CampaignEventSchema),
	"channels":    exportSource(func(c *v2.Client) *api.Query[v2.Channel] { return c.Channels("", "") }, v2.ChannelSchema),
	"classifiers": exportSource(func(c *v2.Client) *api.Query[v2.Classifier] { return c.Classifiers("") }, v2.ClassifierSchema),
	"contacts":    exportSource(func(c *v2.Client) *api.Query[v2.Contact] { return c.Contacts(v2.ContactFilter{}) }, v2.ContactSchema),
	"fields":      exportSource(func(c *v2.Client) *api.Query[v2.Field] { return c.Fields("") }, v2.FieldSchema),
	"flow_starts": exportSource(func(c *v2.Client) *api.Query[v2.FlowStart] { return c.FlowStarts("") }, v2.FlowStartSchema),
	"flows":       exportSource(func(c *v2.Client) *api.Query[v2.Flow] { return c.Flows("") }, v2.FlowSchema),
	"globals":     exportSource(func(c *v2.Client) *api.Query[v2.Global] { return c.Globals() }, v2.GlobalSchema),
	"groups":      exportSource(func(c *v2.Client) *api.Query[v2.Group] { return c.Groups("", "") }, v2.GroupSchema),
	"labels":      exportSource(func(c *v2.Client) *api.Query[v2.Label] { return c.Labels("", "") }, v2.LabelSchema),
	"messages":    exportSource(func(c *v2.Client) *api.Query[v2.Message] { return c.Messages(v2.MessageFilter{}) }, v2.MessageSchema),
	"resthooks":   exportSource(func(c *v2.Client) *api.Query[v2.Resthook] { return c.Resthooks() }, v2.ResthookSchema),
	"runs":        exportSource(func(c *v2.Client) *api.Query[v2.Run] { return c.Runs(v2.RunFilter{}) }, v2.RunSchema),
}

func exportResourceNames() []string {
	return sortedKeys(exportResources)
}

// exportSummary is the outcome of one resource export.
type exportSummary struct {
	Resource string `json:"resource"`
	Records  int    `json:"records"`
	Resumed  bool   `json:"resumed,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newExportCmd() *cobra.Command {
	var (
		sinkName    string
		dbPath      string
		resume      bool
		natsURL     string
		natsSubject string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "export <resource>... | --all",
		Short: "Stream whole listings to JSONL, SQLite or NATS",
		Long: strings.TrimSpace(`
Export every object of one or more resources.

Sinks:
  jsonl   one {"resource": ..., "item": ...} line per object on stdout
  sqlite  upsert into the export database (--db)
  nats    publish each object to <subject>.<resource>

Page cursors are checkpointed in the export database when the sink is sqlite,
when --db is set, or with --resume. An interrupted export continues from the
last saved page with --resume.

Resources: ` + strings.Join(exportResourceNames(), ", ")),
		Example: strings.TrimSpace(`
  rapidpro export contacts groups --sink sqlite --db org.db
  rapidpro export runs --sink sqlite --db org.db --resume
  rapidpro export messages > messages.jsonl
  rapidpro export --all --sink nats --nats-url nats://localhost:4222
`),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			resources := splitList(args)
			if all {
				resources = exportResourceNames()
			}
			if len(resources) == 0 {
				return fmt.Errorf("specify at least one resource or --all")
			}
			for _, r := range resources {
				if _, ok := exportResources[r]; !ok {
					return api.NewValidationError("resource", r, exportResourceNames())
				}
			}
			slices.Sort(resources)
			resources = slices.Compact(resources)

			settings, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = settings.ExportDB()
			}
			checkpoint := sinkName == "sqlite" || resume || dbPath != ""
			if dbPath == "" {
				dbPath = defaultExportDB
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if previewExport(cmd, sinkName, dbPath, resources) {
				return nil
			}

			var st *store.Store
			if checkpoint {
				if st, err = store.Open(cmd.Context(), dbPath); err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
			}

			out, err := openSink(sinkName, st, ioStreams.Out, firstNonEmpty(natsURL, settings.NATSURL()), firstNonEmpty(natsSubject, settings.NATSSubject()))
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}

			summaries := runExports(cmd.Context(), client, resources, out, st, resume, concurrency, ioStreams.ErrOut)
			return reportExport(cmd, sinkName, summaries)
		}),
	}

	cmd.Flags().StringVar(&sinkName, "sink", "jsonl", "Destination: jsonl, sqlite or nats")
	cmd.Flags().StringVar(&dbPath, "db", "", "Export database path (default "+defaultExportDB+")")
	cmd.Flags().BoolVar(&resume, "resume", false, "Continue from the last checkpointed page")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")
	cmd.Flags().StringVar(&natsSubject, "subject", "", "NATS subject prefix")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Resources exported in parallel")
	cmd.Flags().Bool("all", false, "Export every resource")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func previewExport(cmd *cobra.Command, sinkName, dbPath string, resources []string) bool {
	return previewWrite(cmd, "GET", strings.Join(resources, ","), map[string]any{
		"sink": sinkName,
		"db":   dbPath,
	})
}

func openSink(name string, st *store.Store, stdout io.Writer, natsURL, subject string) (sink.Sink, error) {
	switch name {
	case "jsonl":
		// Hide any Close method so the sink leaves stdout open.
		return sink.NewJSONL(struct{ io.Writer }{stdout}), nil
	case "sqlite":
		return sink.NewSQLite(st), nil
	case "nats":
		if natsURL == "" {
			return nil, fmt.Errorf("--nats-url is required for the nats sink")
		}
		return sink.ConnectNATS(natsURL, subject)
	default:
		return nil, api.NewValidationError("sink", name, []string{"jsonl", "sqlite", "nats"})
	}
}

// runExports exports resources in parallel. A failing resource does not
// cancel the others.
func runExports(
	ctx context.Context,
	client *v2.Client,
	resources []string,
	out sink.Sink,
	st *store.Store,
	resume bool,
	concurrency int,
	progress io.Writer,
) []exportSummary {
	if concurrency <= 0 {
		concurrency = 1
	}
	summaries := make([]exportSummary, len(resources))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, resource := range resources {
		summaries[i].Resource = resource
		g.Go(func() error {
			s := &summaries[i]
			if err := exportResource(ctx, client, resource, out, st, resume, s); err != nil {
				s.Error = err.Error()
			}
			mu.Lock()
			_, _ = fmt.Fprintf(progress, "%s: %d records\n", resource, s.Records)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return summaries
}

func exportResource(ctx context.Context, client *v2.Client, resource string, out sink.Sink, st *store.Store, resume bool, s *exportSummary) error {
	cursor := ""
	if resume && st != nil {
		c, err := st.Cursor(ctx, resource)
		if err != nil {
			return err
		}
		cursor = c
		s.Resumed = c != ""
	}

	run := exportResources[resource](client)
	err := run(ctx, flags.Retry, cursor, func(batch []sink.Record, next string) error {
		if err := out.Write(ctx, resource, batch); err != nil {
			return err
		}
		s.Records += len(batch)
		if st != nil && next != "" {
			return st.SaveCursor(ctx, resource, next)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if st != nil {
		return st.ClearCursor(ctx, resource)
	}
	return nil
}

func reportExport(cmd *cobra.Command, sinkName string, summaries []exportSummary) error {
	// jsonl owns stdout, so the summary only goes there for other sinks.
	if sinkName != "jsonl" {
		f := formatter(cmd)
		if f.Structured() {
			if err := f.Output(summaries); err != nil {
				return err
			}
		} else {
			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{s.Resource, fmt.Sprint(s.Records), formatBool(&s.Resumed), s.Error}
			}
			if err := f.Table([]string{"Resource", "Records", "Resumed", "Error"}, rows); err != nil {
				return err
			}
		}
	}
	for _, s := range summaries {
		if s.Error != "" {
			return fmt.Errorf("export of %s failed: %s", s.Resource, s.Error)
		}
	}
	return nil
}
