package v2

import (
	"time"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

// ObjectRef is a reference to another object by UUID and name.
type ObjectRef struct {
	api.Nulls

	UUID string
	Name string
}

var ObjectRefSchema = api.NewSchema("ObjectRef",
	api.Simple("uuid", func(o *ObjectRef) *string { return &o.UUID }),
	api.Simple("name", func(o *ObjectRef) *string { return &o.Name }),
)

func (o *ObjectRef) Attr(name string) (any, bool) { return ObjectRefSchema.Attr(o, name) }

// FieldRef is a reference to a contact field by key and name.
type FieldRef struct {
	api.Nulls

	Key  string
	Name string
}

var FieldRefSchema = api.NewSchema("FieldRef",
	api.Simple("key", func(f *FieldRef) *string { return &f.Key }),
	api.Simple("name", func(f *FieldRef) *string { return &f.Name }),
)

func (f *FieldRef) Attr(name string) (any, bool) { return FieldRefSchema.Attr(f, name) }

type Archive struct {
	api.Nulls

	ArchiveType string
	StartDate   *time.Time
	Period      string
	RecordCount *int
	Size        *int
	Hash        string
	DownloadURL string
}

var ArchiveSchema = api.NewSchema("Archive",
	api.Simple("archive_type", func(a *Archive) *string { return &a.ArchiveType }),
	api.Datetime("start_date", func(a *Archive) **time.Time { return &a.StartDate }),
	api.Simple("period", func(a *Archive) *string { return &a.Period }),
	api.Integer("record_count", func(a *Archive) **int { return &a.RecordCount }),
	api.Integer("size", func(a *Archive) **int { return &a.Size }),
	api.Simple("hash", func(a *Archive) *string { return &a.Hash }),
	api.Simple("download_url", func(a *Archive) *string { return &a.DownloadURL }),
)

func (a *Archive) Attr(name string) (any, bool) { return ArchiveSchema.Attr(a, name) }

type BoundaryRef struct {
	api.Nulls

	OSMID string
	Name  string
}

var BoundaryRefSchema = api.NewSchema("BoundaryRef",
	api.Simple("osm_id", func(b *BoundaryRef) *string { return &b.OSMID }),
	api.Simple("name", func(b *BoundaryRef) *string { return &b.Name }),
)

type Geometry struct {
	api.Nulls

	Type        string
	Coordinates any
}

var GeometrySchema = api.NewSchema("Geometry",
	api.Simple("type", func(g *Geometry) *string { return &g.Type }),
	api.Simple("coordinates", func(g *Geometry) *any { return &g.Coordinates }),
)

type Boundary struct {
	api.Nulls

	OSMID    string
	Name     string
	Level    *int
	Parent   *BoundaryRef
	Aliases  []string
	Geometry *Geometry
}

var BoundarySchema = api.NewSchema("Boundary",
	api.Simple("osm_id", func(b *Boundary) *string { return &b.OSMID }),
	api.Simple("name", func(b *Boundary) *string { return &b.Name }),
	api.Integer("level", func(b *Boundary) **int { return &b.Level }),
	api.Object("parent", func(b *Boundary) **BoundaryRef { return &b.Parent }, BoundaryRefSchema),
	api.List("aliases", func(b *Boundary) *[]string { return &b.Aliases }),
	api.Object("geometry", func(b *Boundary) **Geometry { return &b.Geometry }, GeometrySchema),
)

func (b *Boundary) Attr(name string) (any, bool) { return BoundarySchema.Attr(b, name) }

type Broadcast struct {
	api.Nulls

	ID        *int
	Status    string
	URNs      []string
	Contacts  []*ObjectRef
	Groups    []*ObjectRef
	Text      string
	CreatedOn *time.Time
}

var BroadcastSchema = api.NewSchema("Broadcast",
	api.Integer("id", func(b *Broadcast) **int { return &b.ID }),
	api.Simple("status", func(b *Broadcast) *string { return &b.Status }),
	api.Simple("urns", func(b *Broadcast) *[]string { return &b.URNs }),
	api.ObjectList("contacts", func(b *Broadcast) *[]*ObjectRef { return &b.Contacts }, ObjectRefSchema),
	api.ObjectList("groups", func(b *Broadcast) *[]*ObjectRef { return &b.Groups }, ObjectRefSchema),
	api.Simple("text", func(b *Broadcast) *string { return &b.Text }),
	api.Datetime("created_on", func(b *Broadcast) **time.Time { return &b.CreatedOn }),
)

func (b *Broadcast) Attr(name string) (any, bool) { return BroadcastSchema.Attr(b, name) }

type Campaign struct {
	api.Nulls

	UUID      string
	Name      string
	Archived  *bool
	Group     *ObjectRef
	CreatedOn *time.Time
}

var CampaignSchema = api.NewSchema("Campaign",
	api.Simple("uuid", func(c *Campaign) *string { return &c.UUID }),
	api.Simple("name", func(c *Campaign) *string { return &c.Name }),
	api.Boolean("archived", func(c *Campaign) **bool { return &c.Archived }),
	api.Object("group", func(c *Campaign) **ObjectRef { return &c.Group }, ObjectRefSchema),
	api.Datetime("created_on", func(c *Campaign) **time.Time { return &c.CreatedOn }),
)

func (c *Campaign) Attr(name string) (any, bool) { return CampaignSchema.Attr(c, name) }

type CampaignEvent struct {
	api.Nulls

	UUID         string
	Campaign     *ObjectRef
	RelativeTo   *FieldRef
	Offset       *int
	Unit         string
	DeliveryHour *int
	Flow         *ObjectRef
	Message      any
	CreatedOn    *time.Time
}

var CampaignEventSchema = api.NewSchema("CampaignEvent",
	api.Simple("uuid", func(e *CampaignEvent) *string { return &e.UUID }),
	api.Object("campaign", func(e *CampaignEvent) **ObjectRef { return &e.Campaign }, ObjectRefSchema),
	api.Object("relative_to", func(e *CampaignEvent) **FieldRef { return &e.RelativeTo }, FieldRefSchema),
	api.Integer("offset", func(e *CampaignEvent) **int { return &e.Offset }),
	api.Simple("unit", func(e *CampaignEvent) *string { return &e.Unit }),
	api.Integer("delivery_hour", func(e *CampaignEvent) **int { return &e.DeliveryHour }),
	api.Object("flow", func(e *CampaignEvent) **ObjectRef { return &e.Flow }, ObjectRefSchema),
	api.Simple("message", func(e *CampaignEvent) *any { return &e.Message }),
	api.Datetime("created_on", func(e *CampaignEvent) **time.Time { return &e.CreatedOn }),
)

func (e *CampaignEvent) Attr(name string) (any, bool) { return CampaignEventSchema.Attr(e, name) }

type Device struct {
	api.Nulls

	Name        string
	PowerLevel  *int
	PowerStatus string
	PowerSource string
	NetworkType string
}

var DeviceSchema = api.NewSchema("Device",
	api.Simple("name", func(d *Device) *string { return &d.Name }),
	api.Integer("power_level", func(d *Device) **int { return &d.PowerLevel }),
	api.Simple("power_status", func(d *Device) *string { return &d.PowerStatus }),
	api.Simple("power_source", func(d *Device) *string { return &d.PowerSource }),
	api.Simple("network_type", func(d *Device) *string { return &d.NetworkType }),
)

type Channel struct {
	api.Nulls

	UUID      string
	Name      string
	Address   string
	Country   string
	Device    *Device
	LastSeen  *time.Time
	CreatedOn *time.Time
}

var ChannelSchema = api.NewSchema("Channel",
	api.Simple("uuid", func(c *Channel) *string { return &c.UUID }),
	api.Simple("name", func(c *Channel) *string { return &c.Name }),
	api.Simple("address", func(c *Channel) *string { return &c.Address }),
	api.Simple("country", func(c *Channel) *string { return &c.Country }),
	api.Object("device", func(c *Channel) **Device { return &c.Device }, DeviceSchema),
	api.Datetime("last_seen", func(c *Channel) **time.Time { return &c.LastSeen }),
	api.Datetime("created_on", func(c *Channel) **time.Time { return &c.CreatedOn }),
)

func (c *Channel) Attr(name string) (any, bool) { return ChannelSchema.Attr(c, name) }

type Classifier struct {
	api.Nulls

	UUID      string
	Type      string
	Name      string
	Intents   []string
	CreatedOn *time.Time
}

var ClassifierSchema = api.NewSchema("Classifier",
	api.Simple("uuid", func(c *Classifier) *string { return &c.UUID }),
	api.Simple("type", func(c *Classifier) *string { return &c.Type }),
	api.Simple("name", func(c *Classifier) *string { return &c.Name }),
	api.List("intents", func(c *Classifier) *[]string { return &c.Intents }),
	api.Datetime("created_on", func(c *Classifier) **time.Time { return &c.CreatedOn }),
)

func (c *Classifier) Attr(name string) (any, bool) { return ClassifierSchema.Attr(c, name) }

type Contact struct {
	api.Nulls

	UUID       string
	Name       string
	Status     string
	Language   string
	URNs       []string
	Groups     []*ObjectRef
	Flow       *ObjectRef
	Fields     map[string]any
	CreatedOn  *time.Time
	ModifiedOn *time.Time
	LastSeenOn *time.Time
}

var ContactSchema = api.NewSchema("Contact",
	api.Simple("uuid", func(c *Contact) *string { return &c.UUID }),
	api.Simple("name", func(c *Contact) *string { return &c.Name }),
	api.Simple("status", func(c *Contact) *string { return &c.Status }),
	api.Simple("language", func(c *Contact) *string { return &c.Language }),
	api.List("urns", func(c *Contact) *[]string { return &c.URNs }),
	api.ObjectList("groups", func(c *Contact) *[]*ObjectRef { return &c.Groups }, ObjectRefSchema),
	api.Object("flow", func(c *Contact) **ObjectRef { return &c.Flow }, ObjectRefSchema),
	api.Simple("fields", func(c *Contact) *map[string]any { return &c.Fields }),
	api.Datetime("created_on", func(c *Contact) **time.Time { return &c.CreatedOn }),
	api.Datetime("modified_on", func(c *Contact) **time.Time { return &c.ModifiedOn }),
	api.Datetime("last_seen_on", func(c *Contact) **time.Time { return &c.LastSeenOn }),
)

func (c *Contact) Attr(name string) (any, bool) { return ContactSchema.Attr(c, name) }

// Export is a workspace definitions export.
type Export struct {
	api.Nulls

	Version   string
	Flows     []map[string]any
	Campaigns []map[string]any
	Triggers  []map[string]any
	Fields    []map[string]any
	Groups    []map[string]any
}

var ExportSchema = api.NewSchema("Export",
	api.Simple("version", func(e *Export) *string { return &e.Version }),
	api.List("flows", func(e *Export) *[]map[string]any { return &e.Flows }),
	api.List("campaigns", func(e *Export) *[]map[string]any { return &e.Campaigns }),
	api.List("triggers", func(e *Export) *[]map[string]any { return &e.Triggers }),
	api.List("fields", func(e *Export) *[]map[string]any { return &e.Fields }),
	api.List("groups", func(e *Export) *[]map[string]any { return &e.Groups }),
)

func (e *Export) Attr(name string) (any, bool) { return ExportSchema.Attr(e, name) }

// Field is a contact field definition.
type Field struct {
	api.Nulls

	Key  string
	Name string
	Type string
}

var FieldSchema = api.NewSchema("Field",
	api.Simple("key", func(f *Field) *string { return &f.Key }),
	api.Simple("name", func(f *Field) *string { return &f.Name }),
	api.Simple("type", func(f *Field) *string { return &f.Type }),
)

func (f *Field) Attr(name string) (any, bool) { return FieldSchema.Attr(f, name) }

type FlowRuns struct {
	api.Nulls

	Active      *int
	Waiting     *int
	Completed   *int
	Interrupted *int
	Expired     *int
	Failed      *int
}

var FlowRunsSchema = api.NewSchema("Runs",
	api.Integer("active", func(r *FlowRuns) **int { return &r.Active }),
	api.Integer("waiting", func(r *FlowRuns) **int { return &r.Waiting }),
	api.Integer("completed", func(r *FlowRuns) **int { return &r.Completed }),
	api.Integer("interrupted", func(r *FlowRuns) **int { return &r.Interrupted }),
	api.Integer("expired", func(r *FlowRuns) **int { return &r.Expired }),
	api.Integer("failed", func(r *FlowRuns) **int { return &r.Failed }),
)

type FlowResult struct {
	api.Nulls

	Key        string
	Name       string
	Categories []string
	NodeUUIDs  []string
}

var FlowResultSchema = api.NewSchema("FlowResult",
	api.Simple("key", func(r *FlowResult) *string { return &r.Key }),
	api.Simple("name", func(r *FlowResult) *string { return &r.Name }),
	api.Simple("categories", func(r *FlowResult) *[]string { return &r.Categories }),
	api.Simple("node_uuids", func(r *FlowResult) *[]string { return &r.NodeUUIDs }),
)

type Flow struct {
	api.Nulls

	UUID      string
	Name      string
	Type      string
	Archived  *bool
	Labels    []*ObjectRef
	Expires   *int
	CreatedOn *time.Time
	Runs      *FlowRuns
	Results   []*FlowResult
}

var FlowSchema = api.NewSchema("Flow",
	api.Simple("uuid", func(f *Flow) *string { return &f.UUID }),
	api.Simple("name", func(f *Flow) *string { return &f.Name }),
	api.Simple("type", func(f *Flow) *string { return &f.Type }),
	api.Boolean("archived", func(f *Flow) **bool { return &f.Archived }),
	api.ObjectList("labels", func(f *Flow) *[]*ObjectRef { return &f.Labels }, ObjectRefSchema),
	api.Integer("expires", func(f *Flow) **int { return &f.Expires }),
	api.Datetime("created_on", func(f *Flow) **time.Time { return &f.CreatedOn }),
	api.Object("runs", func(f *Flow) **FlowRuns { return &f.Runs }, FlowRunsSchema),
	api.ObjectList("results", func(f *Flow) *[]*FlowResult { return &f.Results }, FlowResultSchema),
)

func (f *Flow) Attr(name string) (any, bool) { return FlowSchema.Attr(f, name) }

type FlowStart struct {
	api.Nulls

	UUID                string
	Flow                *ObjectRef
	Groups              []*ObjectRef
	Contacts            []*ObjectRef
	Status              string
	RestartParticipants *bool
	ExcludeActive       *bool
	Params              map[string]any
	CreatedOn           *time.Time
	ModifiedOn          *time.Time
}

var FlowStartSchema = api.NewSchema("FlowStart",
	api.Simple("uuid", func(s *FlowStart) *string { return &s.UUID }),
	api.Object("flow", func(s *FlowStart) **ObjectRef { return &s.Flow }, ObjectRefSchema),
	api.ObjectList("groups", func(s *FlowStart) *[]*ObjectRef { return &s.Groups }, ObjectRefSchema),
	api.ObjectList("contacts", func(s *FlowStart) *[]*ObjectRef { return &s.Contacts }, ObjectRefSchema),
	api.Simple("status", func(s *FlowStart) *string { return &s.Status }),
	api.Boolean("restart_participants", func(s *FlowStart) **bool { return &s.RestartParticipants }),
	api.Boolean("exclude_active", func(s *FlowStart) **bool { return &s.ExcludeActive }),
	api.Simple("params", func(s *FlowStart) *map[string]any { return &s.Params }),
	api.Datetime("created_on", func(s *FlowStart) **time.Time { return &s.CreatedOn }),
	api.Datetime("modified_on", func(s *FlowStart) **time.Time { return &s.ModifiedOn }),
)

func (s *FlowStart) Attr(name string) (any, bool) { return FlowStartSchema.Attr(s, name) }

type Global struct {
	api.Nulls

	Key        string
	Name       string
	Value      string
	ModifiedOn *time.Time
}

var GlobalSchema = api.NewSchema("Global",
	api.Simple("key", func(g *Global) *string { return &g.Key }),
	api.Simple("name", func(g *Global) *string { return &g.Name }),
	api.Simple("value", func(g *Global) *string { return &g.Value }),
	api.Datetime("modified_on", func(g *Global) **time.Time { return &g.ModifiedOn }),
)

func (g *Global) Attr(name string) (any, bool) { return GlobalSchema.Attr(g, name) }

type Group struct {
	api.Nulls

	UUID   string
	Name   string
	Query  string
	Status string
	System *bool
	Count  *int
}

var GroupSchema = api.NewSchema("Group",
	api.Simple("uuid", func(g *Group) *string { return &g.UUID }),
	api.Simple("name", func(g *Group) *string { return &g.Name }),
	api.Simple("query", func(g *Group) *string { return &g.Query }),
	api.Simple("status", func(g *Group) *string { return &g.Status }),
	api.Boolean("system", func(g *Group) **bool { return &g.System }),
	api.Integer("count", func(g *Group) **int { return &g.Count }),
)

func (g *Group) Attr(name string) (any, bool) { return GroupSchema.Attr(g, name) }

type Label struct {
	api.Nulls

	UUID  string
	Name  string
	Count *int
}

var LabelSchema = api.NewSchema("Label",
	api.Simple("uuid", func(l *Label) *string { return &l.UUID }),
	api.Simple("name", func(l *Label) *string { return &l.Name }),
	api.Integer("count", func(l *Label) **int { return &l.Count }),
)

func (l *Label) Attr(name string) (any, bool) { return LabelSchema.Attr(l, name) }

type Attachment struct {
	api.Nulls

	ContentType string
	URL         string
}

var AttachmentSchema = api.NewSchema("AttachmentRef",
	api.Simple("content_type", func(a *Attachment) *string { return &a.ContentType }),
	api.Simple("url", func(a *Attachment) *string { return &a.URL }),
)

type Message struct {
	api.Nulls

	ID          *int
	Broadcast   *int
	Contact     *ObjectRef
	URN         string
	Channel     *ObjectRef
	Direction   string
	Type        string
	Status      string
	Visibility  string
	Text        string
	Labels      []*ObjectRef
	Attachments []*Attachment
	Flow        *ObjectRef
	CreatedOn   *time.Time
	SentOn      *time.Time
	ModifiedOn  *time.Time
}

var MessageSchema = api.NewSchema("Message",
	api.Integer("id", func(m *Message) **int { return &m.ID }),
	api.Integer("broadcast", func(m *Message) **int { return &m.Broadcast }),
	api.Object("contact", func(m *Message) **ObjectRef { return &m.Contact }, ObjectRefSchema),
	api.Simple("urn", func(m *Message) *string { return &m.URN }),
	api.Object("channel", func(m *Message) **ObjectRef { return &m.Channel }, ObjectRefSchema),
	api.Simple("direction", func(m *Message) *string { return &m.Direction }),
	api.Simple("type", func(m *Message) *string { return &m.Type }),
	api.Simple("status", func(m *Message) *string { return &m.Status }),
	api.Simple("visibility", func(m *Message) *string { return &m.Visibility }),
	api.Simple("text", func(m *Message) *string { return &m.Text }),
	api.ObjectList("labels", func(m *Message) *[]*ObjectRef { return &m.Labels }, ObjectRefSchema),
	api.ObjectList("attachments", func(m *Message) *[]*Attachment { return &m.Attachments }, AttachmentSchema),
	api.Object("flow", func(m *Message) **ObjectRef { return &m.Flow }, ObjectRefSchema),
	api.Datetime("created_on", func(m *Message) **time.Time { return &m.CreatedOn }),
	api.Datetime("sent_on", func(m *Message) **time.Time { return &m.SentOn }),
	api.Datetime("modified_on", func(m *Message) **time.Time { return &m.ModifiedOn }),
)

func (m *Message) Attr(name string) (any, bool) { return MessageSchema.Attr(m, name) }

// Org is the workspace the token belongs to.
type Org struct {
	api.Nulls

	UUID            string
	Name            string
	Country         string
	Languages       []string
	PrimaryLanguage string
	Timezone        string
	DateStyle       string
	Anon            bool
}

var OrgSchema = api.NewSchema("Org",
	api.Simple("uuid", func(o *Org) *string { return &o.UUID }),
	api.Simple("name", func(o *Org) *string { return &o.Name }),
	api.Simple("country", func(o *Org) *string { return &o.Country }),
	api.List("languages", func(o *Org) *[]string { return &o.Languages }),
	api.Simple("primary_language", func(o *Org) *string { return &o.PrimaryLanguage }),
	api.Simple("timezone", func(o *Org) *string { return &o.Timezone }),
	api.Simple("date_style", func(o *Org) *string { return &o.DateStyle }),
	api.Simple("anon", func(o *Org) *bool { return &o.Anon }),
)

func (o *Org) Attr(name string) (any, bool) { return OrgSchema.Attr(o, name) }

type Resthook struct {
	api.Nulls

	Resthook   string
	CreatedOn  *time.Time
	ModifiedOn *time.Time
}

var ResthookSchema = api.NewSchema("Resthook",
	api.Simple("resthook", func(r *Resthook) *string { return &r.Resthook }),
	api.Datetime("created_on", func(r *Resthook) **time.Time { return &r.CreatedOn }),
	api.Datetime("modified_on", func(r *Resthook) **time.Time { return &r.ModifiedOn }),
)

func (r *Resthook) Attr(name string) (any, bool) { return ResthookSchema.Attr(r, name) }

type ResthookEvent struct {
	api.Nulls

	Resthook  string
	Data      map[string]any
	CreatedOn *time.Time
}

var ResthookEventSchema = api.NewSchema("ResthookEvent",
	api.Simple("resthook", func(r *ResthookEvent) *string { return &r.Resthook }),
	api.Simple("data", func(r *ResthookEvent) *map[string]any { return &r.Data }),
	api.Datetime("created_on", func(r *ResthookEvent) **time.Time { return &r.CreatedOn }),
)

func (r *ResthookEvent) Attr(name string) (any, bool) { return ResthookEventSchema.Attr(r, name) }

type ResthookSubscriber struct {
	api.Nulls

	ID        *int
	Resthook  string
	TargetURL string
	CreatedOn *time.Time
}

var ResthookSubscriberSchema = api.NewSchema("ResthookSubscriber",
	api.Integer("id", func(r *ResthookSubscriber) **int { return &r.ID }),
	api.Simple("resthook", func(r *ResthookSubscriber) *string { return &r.Resthook }),
	api.Simple("target_url", func(r *ResthookSubscriber) *string { return &r.TargetURL }),
	api.Datetime("created_on", func(r *ResthookSubscriber) **time.Time { return &r.CreatedOn }),
)

func (r *ResthookSubscriber) Attr(name string) (any, bool) {
	return ResthookSubscriberSchema.Attr(r, name)
}

type RunStart struct {
	api.Nulls

	UUID string
}

var RunStartSchema = api.NewSchema("StartRef",
	api.Simple("uuid", func(s *RunStart) *string { return &s.UUID }),
)

type RunStep struct {
	api.Nulls

	Node string
	Time *time.Time
}

var RunStepSchema = api.NewSchema("Step",
	api.Simple("node", func(s *RunStep) *string { return &s.Node }),
	api.Datetime("time", func(s *RunStep) **time.Time { return &s.Time }),
)

type RunValue struct {
	api.Nulls

	Name     string
	Value    any
	Category string
	Node     string
	Time     *time.Time
}

var RunValueSchema = api.NewSchema("Value",
	api.Simple("name", func(v *RunValue) *string { return &v.Name }),
	api.Simple("value", func(v *RunValue) *any { return &v.Value }),
	api.Simple("category", func(v *RunValue) *string { return &v.Category }),
	api.Simple("node", func(v *RunValue) *string { return &v.Node }),
	api.Datetime("time", func(v *RunValue) **time.Time { return &v.Time }),
)

type Run struct {
	api.Nulls

	UUID       string
	Flow       *ObjectRef
	Contact    *ObjectRef
	Start      *RunStart
	Responded  *bool
	Path       []*RunStep
	Values     map[string]*RunValue
	CreatedOn  *time.Time
	ModifiedOn *time.Time
	ExitedOn   *time.Time
	ExitType   string
}

var RunSchema = api.NewSchema("Run",
	api.Simple("uuid", func(r *Run) *string { return &r.UUID }),
	api.Object("flow", func(r *Run) **ObjectRef { return &r.Flow }, ObjectRefSchema),
	api.Object("contact", func(r *Run) **ObjectRef { return &r.Contact }, ObjectRefSchema),
	api.Object("start", func(r *Run) **RunStart { return &r.Start }, RunStartSchema),
	api.Boolean("responded", func(r *Run) **bool { return &r.Responded }),
	api.ObjectList("path", func(r *Run) *[]*RunStep { return &r.Path }, RunStepSchema),
	api.ObjectDict("values", func(r *Run) *map[string]*RunValue { return &r.Values }, RunValueSchema),
	api.Datetime("created_on", func(r *Run) **time.Time { return &r.CreatedOn }),
	api.Datetime("modified_on", func(r *Run) **time.Time { return &r.ModifiedOn }),
	api.Datetime("exited_on", func(r *Run) **time.Time { return &r.ExitedOn }),
	api.Simple("exit_type", func(r *Run) *string { return &r.ExitType }),
)

func (r *Run) Attr(name string) (any, bool) { return RunSchema.Attr(r, name) }
