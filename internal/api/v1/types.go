package v1

import (
	"slices"
	"time"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

type Broadcast struct {
	api.Nulls

	ID        *int
	URNs      []string
	Contacts  []string
	Groups    []string
	Text      string
	Status    string
	CreatedOn *time.Time
}

var BroadcastSchema = api.NewSchema("Broadcast",
	api.Integer("id", func(b *Broadcast) **int { return &b.ID }),
	api.Simple("urns", func(b *Broadcast) *[]string { return &b.URNs }),
	api.Simple("contacts", func(b *Broadcast) *[]string { return &b.Contacts }),
	api.Simple("groups", func(b *Broadcast) *[]string { return &b.Groups }),
	api.Simple("text", func(b *Broadcast) *string { return &b.Text }),
	api.Simple("status", func(b *Broadcast) *string { return &b.Status }),
	api.Datetime("created_on", func(b *Broadcast) **time.Time { return &b.CreatedOn }),
)

func (b *Broadcast) Attr(name string) (any, bool) { return BroadcastSchema.Attr(b, name) }

type Campaign struct {
	api.Nulls

	UUID      string
	Name      string
	Group     string
	CreatedOn *time.Time
}

var CampaignSchema = api.NewSchema("Campaign",
	api.Simple("uuid", func(c *Campaign) *string { return &c.UUID }),
	api.Simple("name", func(c *Campaign) *string { return &c.Name }),
	api.Simple("group", func(c *Campaign) *string { return &c.Group }, api.Source("group_uuid")),
	api.Datetime("created_on", func(c *Campaign) **time.Time { return &c.CreatedOn }),
)

func (c *Campaign) Attr(name string) (any, bool) { return CampaignSchema.Attr(c, name) }

type Contact struct {
	api.Nulls

	UUID       string
	Name       string
	URNs       []string
	Groups     []string
	Fields     map[string]any
	Language   string
	Blocked    *bool
	Failed     *bool
	ModifiedOn *time.Time
}

var ContactSchema = api.NewSchema("Contact",
	api.Simple("uuid", func(c *Contact) *string { return &c.UUID }),
	api.Simple("name", func(c *Contact) *string { return &c.Name }),
	api.Simple("urns", func(c *Contact) *[]string { return &c.URNs }),
	api.Simple("groups", func(c *Contact) *[]string { return &c.Groups }, api.Source("group_uuids")),
	api.Simple("fields", func(c *Contact) *map[string]any { return &c.Fields }),
	api.Simple("language", func(c *Contact) *string { return &c.Language }),
	api.Simple("blocked", func(c *Contact) **bool { return &c.Blocked }),
	api.Simple("failed", func(c *Contact) **bool { return &c.Failed }),
	api.Datetime("modified_on", func(c *Contact) **time.Time { return &c.ModifiedOn }),
)

func (c *Contact) Attr(name string) (any, bool) { return ContactSchema.Attr(c, name) }

type Group struct {
	api.Nulls

	UUID string
	Name string
	Size *int
}

var GroupSchema = api.NewSchema("Group",
	api.Simple("uuid", func(g *Group) *string { return &g.UUID }),
	api.Simple("name", func(g *Group) *string { return &g.Name }),
	api.Integer("size", func(g *Group) **int { return &g.Size }),
)

func (g *Group) Attr(name string) (any, bool) { return GroupSchema.Attr(g, name) }

// Event is a campaign event.
type Event struct {
	api.Nulls

	UUID         string
	Campaign     string
	RelativeTo   string
	Offset       *int
	Unit         string
	DeliveryHour *int
	Message      string
	Flow         string
	CreatedOn    *time.Time
}

var EventSchema = api.NewSchema("Event",
	api.Simple("uuid", func(e *Event) *string { return &e.UUID }),
	api.Simple("campaign", func(e *Event) *string { return &e.Campaign }, api.Source("campaign_uuid")),
	api.Simple("relative_to", func(e *Event) *string { return &e.RelativeTo }),
	api.Integer("offset", func(e *Event) **int { return &e.Offset }),
	api.Simple("unit", func(e *Event) *string { return &e.Unit }),
	api.Integer("delivery_hour", func(e *Event) **int { return &e.DeliveryHour }),
	api.Simple("message", func(e *Event) *string { return &e.Message }),
	api.Simple("flow", func(e *Event) *string { return &e.Flow }, api.Source("flow_uuid")),
	api.Datetime("created_on", func(e *Event) **time.Time { return &e.CreatedOn }),
)

func (e *Event) Attr(name string) (any, bool) { return EventSchema.Attr(e, name) }

type Field struct {
	api.Nulls

	Key       string
	Label     string
	ValueType string
}

var FieldSchema = api.NewSchema("Field",
	api.Simple("key", func(f *Field) *string { return &f.Key }),
	api.Simple("label", func(f *Field) *string { return &f.Label }),
	api.Simple("value_type", func(f *Field) *string { return &f.ValueType }),
)

func (f *Field) Attr(name string) (any, bool) { return FieldSchema.Attr(f, name) }

// RuleSet is a flow node that records a result. Its UUID is the node UUID.
type RuleSet struct {
	api.Nulls

	UUID         string
	Label        string
	ResponseType string
}

var RuleSetSchema = api.NewSchema("RuleSet",
	api.Simple("uuid", func(r *RuleSet) *string { return &r.UUID }, api.Source("node")),
	api.Simple("label", func(r *RuleSet) *string { return &r.Label }),
	api.Simple("response_type", func(r *RuleSet) *string { return &r.ResponseType }),
)

type Flow struct {
	api.Nulls

	UUID          string
	Name          string
	Archived      *bool
	Labels        []string
	Participants  *int
	Runs          *int
	CompletedRuns *int
	Expires       *int
	RuleSets      []*RuleSet
	CreatedOn     *time.Time
}

var FlowSchema = api.NewSchema("Flow",
	api.Simple("uuid", func(f *Flow) *string { return &f.UUID }),
	api.Simple("name", func(f *Flow) *string { return &f.Name }),
	api.Simple("archived", func(f *Flow) **bool { return &f.Archived }),
	api.Simple("labels", func(f *Flow) *[]string { return &f.Labels }),
	api.Integer("participants", func(f *Flow) **int { return &f.Participants }),
	api.Integer("runs", func(f *Flow) **int { return &f.Runs }),
	api.Integer("completed_runs", func(f *Flow) **int { return &f.CompletedRuns }),
	api.Integer("expires", func(f *Flow) **int { return &f.Expires }),
	api.ObjectList("rulesets", func(f *Flow) *[]*RuleSet { return &f.RuleSets }, RuleSetSchema),
	api.Datetime("created_on", func(f *Flow) **time.Time { return &f.CreatedOn }),
)

func (f *Flow) Attr(name string) (any, bool) { return FlowSchema.Attr(f, name) }

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

type Message struct {
	api.Nulls

	ID          *int
	Broadcast   *int
	Contact     string
	URN         string
	Status      string
	Type        string
	Labels      []string
	Direction   string
	Archived    *bool
	Text        string
	CreatedOn   *time.Time
	DeliveredOn *time.Time
	SentOn      *time.Time
}

var MessageSchema = api.NewSchema("Message",
	api.Integer("id", func(m *Message) **int { return &m.ID }),
	api.Integer("broadcast", func(m *Message) **int { return &m.Broadcast }),
	api.Simple("contact", func(m *Message) *string { return &m.Contact }),
	api.Simple("urn", func(m *Message) *string { return &m.URN }),
	api.Simple("status", func(m *Message) *string { return &m.Status }),
	api.Simple("type", func(m *Message) *string { return &m.Type }),
	api.Simple("labels", func(m *Message) *[]string { return &m.Labels }),
	api.Simple("direction", func(m *Message) *string { return &m.Direction }),
	api.Simple("archived", func(m *Message) **bool { return &m.Archived }),
	api.Simple("text", func(m *Message) *string { return &m.Text }),
	api.Datetime("created_on", func(m *Message) **time.Time { return &m.CreatedOn }),
	api.Datetime("delivered_on", func(m *Message) **time.Time { return &m.DeliveredOn }),
	api.Datetime("sent_on", func(m *Message) **time.Time { return &m.SentOn }),
)

func (m *Message) Attr(name string) (any, bool) { return MessageSchema.Attr(m, name) }

type Org struct {
	api.Nulls

	Name            string
	Country         string
	Languages       []string
	PrimaryLanguage string
	Timezone        string
	DateStyle       string
	Anon            bool
}

var OrgSchema = api.NewSchema("Org",
	api.Simple("name", func(o *Org) *string { return &o.Name }),
	api.Simple("country", func(o *Org) *string { return &o.Country }),
	api.Simple("languages", func(o *Org) *[]string { return &o.Languages }),
	api.Simple("primary_language", func(o *Org) *string { return &o.PrimaryLanguage }),
	api.Simple("timezone", func(o *Org) *string { return &o.Timezone }),
	api.Simple("date_style", func(o *Org) *string { return &o.DateStyle }),
	api.Simple("anon", func(o *Org) *bool { return &o.Anon }),
)

type RunValueSet struct {
	api.Nulls

	Node      string
	Category  any
	Text      string
	RuleValue string
	Value     any
	Label     string
	Time      *time.Time
}

var RunValueSetSchema = api.NewSchema("RunValueSet",
	api.Simple("node", func(v *RunValueSet) *string { return &v.Node }),
	api.Simple("category", func(v *RunValueSet) *any { return &v.Category }),
	api.Simple("text", func(v *RunValueSet) *string { return &v.Text }),
	api.Simple("rule_value", func(v *RunValueSet) *string { return &v.RuleValue }),
	api.Simple("value", func(v *RunValueSet) *any { return &v.Value }),
	api.Simple("label", func(v *RunValueSet) *string { return &v.Label }),
	api.Datetime("time", func(v *RunValueSet) **time.Time { return &v.Time }),
)

type FlowStep struct {
	api.Nulls

	Node      string
	Text      string
	Value     any
	Type      string
	ArrivedOn *time.Time
	LeftOn    *time.Time
}

var FlowStepSchema = api.NewSchema("FlowStep",
	api.Simple("node", func(s *FlowStep) *string { return &s.Node }),
	api.Simple("text", func(s *FlowStep) *string { return &s.Text }),
	api.Simple("value", func(s *FlowStep) *any { return &s.Value }),
	api.Simple("type", func(s *FlowStep) *string { return &s.Type }),
	api.Datetime("arrived_on", func(s *FlowStep) **time.Time { return &s.ArrivedOn }),
	api.Datetime("left_on", func(s *FlowStep) **time.Time { return &s.LeftOn }),
)

type Run struct {
	api.Nulls

	ID        *int
	Flow      string
	Contact   string
	Steps     []*FlowStep
	Values    []*RunValueSet
	CreatedOn *time.Time
	ExpiresOn *time.Time
	ExpiredOn *time.Time
	Completed *bool
}

// RunSchema keeps only the last value recorded at each node, since the
// server returns one per visit.
var RunSchema = api.NewSchema("Run",
	api.Integer("id", func(r *Run) **int { return &r.ID }, api.Source("run")),
	api.Simple("flow", func(r *Run) *string { return &r.Flow }, api.Source("flow_uuid")),
	api.Simple("contact", func(r *Run) *string { return &r.Contact }),
	api.ObjectList("steps", func(r *Run) *[]*FlowStep { return &r.Steps }, FlowStepSchema),
	api.ObjectList("values", func(r *Run) *[]*RunValueSet { return &r.Values }, RunValueSetSchema),
	api.Datetime("created_on", func(r *Run) **time.Time { return &r.CreatedOn }),
	api.Datetime("expires_on", func(r *Run) **time.Time { return &r.ExpiresOn }),
	api.Datetime("expired_on", func(r *Run) **time.Time { return &r.ExpiredOn }),
	api.Simple("completed", func(r *Run) **bool { return &r.Completed }),
).AfterDeserialize(lastValuePerNode)

func (r *Run) Attr(name string) (any, bool) { return RunSchema.Attr(r, name) }

func lastValuePerNode(r *Run) {
	seen := make(map[string]bool, len(r.Values))
	var last []*RunValueSet
	for _, v := range slices.Backward(r.Values) {
		if !seen[v.Node] {
			seen[v.Node] = true
			last = append(last, v)
		}
	}
	slices.Reverse(last)
	r.Values = last
}

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

	Boundary string
	Name     string
	Level    *int
	Parent   string
	Geometry *Geometry
}

var BoundarySchema = api.NewSchema("Boundary",
	api.Simple("boundary", func(b *Boundary) *string { return &b.Boundary }),
	api.Simple("name", func(b *Boundary) *string { return &b.Name }),
	api.Integer("level", func(b *Boundary) **int { return &b.Level }),
	api.Simple("parent", func(b *Boundary) *string { return &b.Parent }),
	api.Object("geometry", func(b *Boundary) **Geometry { return &b.Geometry }, GeometrySchema),
)

type CategoryStats struct {
	api.Nulls

	Count *int
	Label string
}

var CategoryStatsSchema = api.NewSchema("CategoryStats",
	api.Integer("count", func(c *CategoryStats) **int { return &c.Count }),
	api.Simple("label", func(c *CategoryStats) *string { return &c.Label }),
)

// Result is a summary of flow results, optionally segmented by boundary.
type Result struct {
	api.Nulls

	Boundary   any
	Set        *int
	Unset      *int
	OpenEnded  any
	Label      string
	Categories []*CategoryStats
}

var ResultSchema = api.NewSchema("Result",
	api.Simple("boundary", func(r *Result) *any { return &r.Boundary }, api.Optional()),
	api.Integer("set", func(r *Result) **int { return &r.Set }),
	api.Integer("unset", func(r *Result) **int { return &r.Unset }),
	api.Simple("open_ended", func(r *Result) *any { return &r.OpenEnded }),
	api.Simple("label", func(r *Result) *string { return &r.Label }),
	api.ObjectList("categories", func(r *Result) *[]*CategoryStats { return &r.Categories }, CategoryStatsSchema),
)
