package models

// Point is a script injection slot on the page.
type Point string

const (
	PointScripts     Point = "scripts"
	PointBodyPrepend Point = "body-prepend"
	PointBodyAppend  Point = "body-append"
)

// Points lists the injection points in page order.
var Points = []Point{PointScripts, PointBodyPrepend, PointBodyAppend}

func (p Point) IsValid() bool {
	switch p {
	case PointScripts, PointBodyPrepend, PointBodyAppend:
		return true
	}
	return false
}

// Entry is one decision as stored in the consent cookie.
type Entry struct {
	Slug   string `json:"slug" validate:"required,max=100,slug"`
	Status bool   `json:"status"`
}

// Record is the ordered decision list carried by the cookie. It is replaced
// wholesale on every decision.
type Record []Entry

// Mapping converts the record to slug -> status. Later duplicates win.
func (r Record) Mapping() Mapping {
	m := make(Mapping, len(r))
	for _, e := range r {
		m[e.Slug] = e.Status
	}
	return m
}

// Set replaces the status of slug in place or appends a new entry.
func (r Record) Set(slug string, status bool) Record {
	out := make(Record, 0, len(r)+1)
	found := false
	for _, e := range r {
		if e.Slug == slug {
			if found {
				continue
			}
			e.Status = status
			found = true
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, Entry{Slug: slug, Status: status})
	}
	return out
}

// HasDenied reports whether any entry is false.
func (r Record) HasDenied() bool {
	for _, e := range r {
		if !e.Status {
			return true
		}
	}
	return false
}

// Mapping is the decoded consent cookie: slug -> status. An absent key means
// the user was never asked about that group.
type Mapping map[string]bool

// Pending holds raw form values submitted alongside a save, read before the
// cookie round-trip completes.
type Pending map[string]string

// On reports whether slug was submitted with the literal value "on".
func (p Pending) On(slug string) bool {
	return p[slug] == "on"
}

// Swap tells the client which markup replaces a service's placeholder.
type Swap struct {
	Service string `json:"service"`
	Slug    string `json:"slug"`
	Active  bool   `json:"active"`
	Markup  string `json:"markup"`
}

// NewSwap picks the live prototype for an active group and the placeholder otherwise.
func NewSwap(g Group, active bool) Swap {
	markup := g.PrototypePlaceholder
	if active {
		markup = g.Prototype
	}
	return Swap{Service: g.Service, Slug: g.Slug, Active: active, Markup: markup}
}

// Outcome is the result of a consent mutation. The caller encodes Record into
// the cookie and expires ExpiredCookies.
type Outcome struct {
	Record         Record
	HaveDenied     bool
	Reload         bool
	ExpiredCookies []string
	Swaps          []Swap
}
